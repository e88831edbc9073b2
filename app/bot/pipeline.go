package bot

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/roniemartinez/SiteSummarizerBot/app/database"
	"github.com/roniemartinez/SiteSummarizerBot/app/dedup"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

// Pipeline drives the idempotent reply flow shared by the submission
// and mention watchers: dedup check, content resolution, reply with
// rate-limit backoff, dedup record write.
type Pipeline struct {
	store    dedup.StoreInterface
	resolver ContentResolver
	journal  database.ReplyRepository
}

func NewPipeline(store dedup.StoreInterface, resolver ContentResolver, journal database.ReplyRepository) *Pipeline {
	return &Pipeline{
		store:    store,
		resolver: resolver,
		journal:  journal,
	}
}

// Process runs one item through the reply flow. dedupKey scopes the
// replied marker (the mention watcher keys on the mention, not the
// submission it points at); reply posts to whichever thing the watcher
// targets. A store failure skips the item without crashing the
// watcher; the item will be reconsidered if the platform redelivers it.
func (p *Pipeline) Process(ctx context.Context, item Item, dedupKey string, reply ReplyFunc) {
	replied, err := p.store.Exists(ctx, dedupKey)
	if err != nil {
		slog.Error("Dedup check failed, skipping item", "kind", item.Kind, "id", item.ID, "error", err)
		return
	}
	if replied {
		slog.Info("Already replied", "kind", item.Kind, "id", item.ID)
		return
	}

	url, ok := CandidateURL(item)
	if !ok {
		slog.Info("URL not found", "kind", item.Kind, "id", item.ID)
		return
	}
	slog.Info("URL found", "kind", item.Kind, "id", item.ID, "url", url)

	result, err := p.resolver.Resolve(ctx, url)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("Content resolution failed, abandoning item", "kind", item.Kind, "id", item.ID, "url", url, "error", err)
		}
		return
	}

	if result.Summary == "" {
		slog.Info("Cannot find contents in URL", "url", url)
		return
	}

	message := FormatMessage(result.Title, result.Summary)

	var replyFullID string
	for {
		replyFullID, err = reply(ctx, message)
		if err == nil {
			break
		}

		var rateLimitErr *reddit.RateLimitError
		if errors.As(err, &rateLimitErr) {
			slog.Info("Rate limit detected", "kind", item.Kind, "id", item.ID, "retry_after", rateLimitErr.RetryAfter.String())
			if sleepErr := sleepCtx(ctx, rateLimitErr.RetryAfter); sleepErr != nil {
				return
			}
			continue
		}

		slog.Error("Reply rejected, abandoning item", "kind", item.Kind, "id", item.ID, "error", err)
		return
	}

	// The marker is written only after a successful post: a crash in
	// between can produce a duplicate reply on restart, which the
	// at-least-once contract accepts.
	if err := p.store.Set(ctx, dedupKey, time.Now()); err != nil {
		slog.Error("Failed to record replied marker", "key", dedupKey, "error", err)
	}

	p.journalReply(item, replyFullID, url, result.Title)

	slog.Info("Posted summary reply", "kind", item.Kind, "id", item.ID, "url", url)
}

// journalReply records a posted reply for the status endpoint. Journal
// failures are logged and swallowed: correctness lives in the dedup
// store.
func (p *Pipeline) journalReply(item Item, replyFullID, url, title string) {
	if p.journal == nil || replyFullID == "" {
		return
	}

	err := p.journal.RecordReply(database.Reply{
		ReplyFullID: replyFullID,
		ItemKind:    string(item.Kind),
		ItemID:      item.ID,
		URL:         url,
		Title:       title,
		PostedAt:    time.Now(),
	})
	if err != nil {
		slog.Error("Failed to journal reply", "kind", item.Kind, "id", item.ID, "error", err)
	}
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
