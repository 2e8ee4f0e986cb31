package permission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/casework-hq/casework/internal/domain/permission"
)

// DefaultRulesFile is used for accounts without a file of their own.
const DefaultRulesFile = "default"

var accountFilePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

var _ permission.RuleLoader = (*FileRuleSource)(nil)

// FileRuleSource reads rule sets from <dir>/<accountSID>.yaml, falling back
// to <dir>/default.yaml.
type FileRuleSource struct {
	dir string
}

func NewFileRuleSource(dir string) *FileRuleSource {
	return &FileRuleSource{dir: dir}
}

func (s *FileRuleSource) LoadRules(ctx context.Context, accountSID string) (permission.RawRules, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !accountFilePattern.MatchString(accountSID) {
		return nil, fmt.Errorf("%w: invalid account SID %q", permission.ErrRulesNotFound, accountSID)
	}

	for _, name := range []string{accountSID, DefaultRulesFile} {
		path, ok := s.find(name)
		if !ok {
			continue
		}
		return ReadRulesFile(path)
	}

	return nil, fmt.Errorf("%w: %s", permission.ErrRulesNotFound, accountSID)
}

// Accounts lists the account SIDs that have their own rules file.
func (s *FileRuleSource) Accounts() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading rules directory: %w", err)
	}

	var accounts []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if name == DefaultRulesFile || !accountFilePattern.MatchString(name) {
			continue
		}
		if !slices.Contains(accounts, name) {
			accounts = append(accounts, name)
		}
	}
	slices.Sort(accounts)
	return accounts, nil
}

func (s *FileRuleSource) find(name string) (string, bool) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ReadRulesFile parses a rules file.
func ReadRulesFile(path string) (permission.RawRules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", permission.ErrRulesNotFound, path)
		}
		return nil, fmt.Errorf("reading rules file: %w", err)
	}

	raw, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// ParseRules decodes the YAML rules format:
//
//	closeCase:
//	  - [isSupervisor]
//	  - [isCreator, isCaseOpen]
//
// An action listed with no condition sets is denied to everyone.
func ParseRules(data []byte) (permission.RawRules, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	raw := permission.RawRules{}
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return permission.RawRules{}, nil
		}
		return nil, fmt.Errorf("%w: %v", permission.ErrMalformedRules, err)
	}
	for action, sets := range raw {
		if sets == nil {
			raw[action] = [][]string{}
		}
	}
	return raw, nil
}

// MarshalRules encodes rules in the format ParseRules reads, actions in
// lexical order.
func MarshalRules(raw permission.RawRules) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	actions := make([]string, 0, len(raw))
	for a := range raw {
		actions = append(actions, a)
	}
	slices.Sort(actions)
	for _, action := range actions {
		sets := &yaml.Node{Kind: yaml.SequenceNode}
		for _, set := range raw[action] {
			names := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, name := range set {
				names.Content = append(names.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name})
			}
			sets.Content = append(sets.Content, names)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: action}, sets)
	}

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}
	return buf.Bytes(), nil
}
