package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/roniemartinez/SiteSummarizerBot/app/dedup"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

var _ Watcher = (*MentionWatcher)(nil)

// MentionWatcher consumes inbound mentions of the bot account. The
// content pipeline runs against the submission the mention points at,
// but the dedup key is scoped to the mention itself, so multiple
// mentions under one submission are each answered once.
type MentionWatcher struct {
	client   MentionSource
	pipeline *Pipeline
	interval time.Duration
	pageSize int
}

func NewMentionWatcher(client MentionSource, pipeline *Pipeline, interval time.Duration, pageSize int) *MentionWatcher {
	return &MentionWatcher{
		client:   client,
		pipeline: pipeline,
		interval: interval,
		pageSize: pageSize,
	}
}

func (w *MentionWatcher) Name() string {
	return "mentions"
}

func (w *MentionWatcher) Run(ctx context.Context) error {
	slog.Info("Listening to mentions")

	stream := reddit.NewStream(w.Name(),
		func(ctx context.Context) ([]reddit.Comment, error) {
			return w.client.Mentions(ctx, w.pageSize)
		},
		func(c reddit.Comment) string { return c.Name },
		w.interval, true)

	return stream.Run(ctx, w.handleMention)
}

func (w *MentionWatcher) handleMention(ctx context.Context, mention reddit.Comment) {
	// Best effort: an unread mention that fails to be marked is
	// redelivered, and the dedup record keeps the reply idempotent.
	if err := w.client.MarkRead(ctx, mention.Name); err != nil {
		slog.Warn("Failed to mark mention read", "id", mention.ID, "error", err)
	}

	submission, err := w.client.SubmissionByFullID(ctx, mention.LinkID)
	if err != nil {
		slog.Error("Failed to fetch mentioned submission", "mention", mention.ID, "link_id", mention.LinkID, "error", err)
		return
	}
	if submission == nil {
		slog.Info("Mentioned submission not found", "mention", mention.ID, "link_id", mention.LinkID)
		return
	}

	item := ItemFromSubmission(*submission)
	key := dedup.CommentKey(mention.ID)

	w.pipeline.Process(ctx, item, key, func(ctx context.Context, text string) (string, error) {
		return w.client.Reply(ctx, mention.Name, text)
	})
}
