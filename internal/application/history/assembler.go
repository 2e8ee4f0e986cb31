package history

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/domain/permission"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/goroutine"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// Assembler merges the entries of every applicable source into one timeline
// page. Sources are queried concurrently; the merge itself is deterministic.
type Assembler struct {
	sources []HistorySource
	checker Checker
	logger  logger.Interface
}

func NewAssembler(checker Checker, logger logger.Interface, sources ...HistorySource) *Assembler {
	return &Assembler{
		sources: sources,
		checker: checker,
		logger:  logger,
	}
}

type sourceResult struct {
	entries []history.TimelineEntry
	total   int
}

// Assemble returns one page of the merged timeline. Contacts the viewer may
// not view are redacted, whether listed directly or carried by a
// connectContact activity; section entries are returned as stored, their
// access being decided by the case guard.
func (a *Assembler) Assemble(ctx context.Context, q TimelineQuery, viewer permission.User) (*history.TimelinePage, error) {
	if len(q.CaseIDs) == 0 {
		return nil, apperrors.NewValidationError("at least one case ID is required")
	}
	if q.Page.Limit <= 0 || q.Page.Offset < 0 {
		return nil, apperrors.NewValidationError("invalid pagination parameters")
	}

	window := q.Page.Window()
	results := make([]sourceResult, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		if !src.Applies(q) {
			continue
		}
		g.Go(goroutine.SafeFunc(a.logger, "history source "+src.Name(), func() error {
			entries, total, err := src.Entries(gctx, q, window)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = sourceResult{entries: entries, total: total}
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		a.logger.Errorw("failed to assemble timeline", "case_ids", q.CaseIDs, "error", err)
		return nil, err
	}

	var (
		merged []history.TimelineEntry
		count  int
	)
	for _, r := range results {
		merged = append(merged, r.entries...)
		count += r.total
	}

	history.SortTimeline(merged)
	page := history.Paginate(merged, q.Page)

	if err := a.redactContacts(ctx, page, viewer); err != nil {
		return nil, err
	}

	return &history.TimelinePage{Entries: page, Count: count}, nil
}

func (a *Assembler) redactContacts(ctx context.Context, entries []history.TimelineEntry, viewer permission.User) error {
	for i := range entries {
		c := entries[i].ContactTarget()
		if c == nil {
			continue
		}
		ok, err := a.checker.Can(ctx, viewer, permission.ActionViewContact, c)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			a.logger.Warnw("contact permission check failed, redacting",
				"user", viewer.WorkerSID,
				"contact_id", c.ID,
				"error", err,
			)
		}
		if !ok {
			entries[i] = entries[i].RedactContact()
		}
	}
	return nil
}
