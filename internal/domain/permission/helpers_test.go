package permission

import (
	"time"

	"github.com/casework-hq/casework/internal/shared/logger"
)

// countingLogger counts the warnings and errors a test provokes.
type countingLogger struct {
	warnings int
	errors   int
}

func (l *countingLogger) With(...any) logger.Interface  { return l }
func (l *countingLogger) Named(string) logger.Interface { return l }
func (l *countingLogger) Debugw(string, ...any)         {}
func (l *countingLogger) Infow(string, ...any)          {}
func (l *countingLogger) Warnw(string, ...any)          { l.warnings++ }
func (l *countingLogger) Errorw(string, ...any)         { l.errors++ }
func (l *countingLogger) Fatalw(string, ...any)         {}

type fakeCase struct {
	id        string
	creator   string
	owner     string
	status    string
	createdAt time.Time
}

func (c *fakeCase) TargetKind() TargetKind { return TargetKindCase }
func (c *fakeCase) TargetID() string       { return c.id }
func (c *fakeCase) CreatorID() string      { return c.creator }
func (c *fakeCase) OwnerID() string        { return c.owner }
func (c *fakeCase) StatusValue() string    { return c.status }
func (c *fakeCase) CreatedAt() time.Time   { return c.createdAt }

type fakeContact struct {
	id string
}

func (c *fakeContact) TargetKind() TargetKind { return TargetKindContact }
func (c *fakeContact) TargetID() string       { return c.id }
