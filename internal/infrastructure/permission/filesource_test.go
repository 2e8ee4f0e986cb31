package permission

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/permission"
)

func writeRulesFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestFileRuleSource_LoadRules(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "AC1.yaml", `
viewCase:
  - [everyone]
closeCase:
  - [isSupervisor]
  - [isCreator, isCaseOpen]
reopenCase:
`)
	source := NewFileRuleSource(dir)

	raw, err := source.LoadRules(context.Background(), "AC1")
	require.NoError(t, err)
	assert.Equal(t, permission.RawRules{
		"viewCase":   {{"everyone"}},
		"closeCase":  {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
		"reopenCase": {},
	}, raw)
}

func TestFileRuleSource_FallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "default.yml", "viewCase:\n  - [isSupervisor]\n")
	source := NewFileRuleSource(dir)

	raw, err := source.LoadRules(context.Background(), "AC9")
	require.NoError(t, err)
	assert.Equal(t, permission.RawRules{"viewCase": {{"isSupervisor"}}}, raw)
}

func TestFileRuleSource_MissingAccount(t *testing.T) {
	source := NewFileRuleSource(t.TempDir())

	_, err := source.LoadRules(context.Background(), "AC1")
	assert.ErrorIs(t, err, permission.ErrRulesNotFound)
}

func TestFileRuleSource_RejectsPathLikeAccounts(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "default.yaml", "viewCase:\n  - [everyone]\n")
	source := NewFileRuleSource(dir)

	for _, account := range []string{"../etc/passwd", "", "a/b"} {
		_, err := source.LoadRules(context.Background(), account)
		assert.ErrorIs(t, err, permission.ErrRulesNotFound, account)
	}
}

func TestFileRuleSource_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "AC1.yaml", "viewCase: everyone\n")
	source := NewFileRuleSource(dir)

	_, err := source.LoadRules(context.Background(), "AC1")
	assert.ErrorIs(t, err, permission.ErrMalformedRules)
}

func TestFileRuleSource_Accounts(t *testing.T) {
	dir := t.TempDir()
	writeRulesFile(t, dir, "AC2.yaml", "{}")
	writeRulesFile(t, dir, "AC1.yml", "{}")
	writeRulesFile(t, dir, "default.yaml", "{}")
	writeRulesFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o700))

	accounts, err := NewFileRuleSource(dir).Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"AC1", "AC2"}, accounts)
}

func TestParseRules_EmptyDocument(t *testing.T) {
	raw, err := ParseRules(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestMarshalRules_ReadsBack(t *testing.T) {
	raw := permission.RawRules{
		"viewCase":   {{"everyone"}},
		"closeCase":  {{"isSupervisor"}, {"isCreator", "isCaseOpen"}},
		"reopenCase": {},
	}

	data, err := MarshalRules(raw)
	require.NoError(t, err)
	assert.Contains(t, string(data), "- [isCreator, isCaseOpen]")

	parsed, err := ParseRules(data)
	require.NoError(t, err)
	assert.Equal(t, raw, parsed)
}
