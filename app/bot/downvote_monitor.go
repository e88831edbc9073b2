package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/roniemartinez/SiteSummarizerBot/app/database"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

var _ Watcher = (*DownvoteMonitor)(nil)

// DownvoteMonitor consumes the bot's own reply history, newest first,
// and retracts any reply whose score has fallen below the threshold.
// History is included (no skip-existing): earlier replies can be
// downvoted while the bot is offline.
type DownvoteMonitor struct {
	client    CommentSource
	journal   database.ReplyRepository
	username  string
	threshold int
	interval  time.Duration
	pageSize  int
}

func NewDownvoteMonitor(client CommentSource, journal database.ReplyRepository, username string, threshold int, interval time.Duration, pageSize int) *DownvoteMonitor {
	return &DownvoteMonitor{
		client:    client,
		journal:   journal,
		username:  username,
		threshold: threshold,
		interval:  interval,
		pageSize:  pageSize,
	}
}

func (m *DownvoteMonitor) Name() string {
	return "downvotes"
}

func (m *DownvoteMonitor) Run(ctx context.Context) error {
	slog.Info("Listening to downvotes", "username", m.username, "threshold", m.threshold)

	// No seen-set shortcut here: a comment scored fine on one poll can
	// be downvoted later, so every poll re-examines the page.
	for {
		comments, err := m.client.UserComments(ctx, m.username, m.pageSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Failed to fetch own comments", "error", err)
		} else {
			m.sweep(ctx, comments)
		}

		if err := sleepCtx(ctx, m.interval); err != nil {
			return err
		}
	}
}

// sweep deletes every comment below the score threshold. Deletion is
// naturally idempotent: deleting an already-deleted comment is a
// platform no-op.
func (m *DownvoteMonitor) sweep(ctx context.Context, comments []reddit.Comment) {
	for _, comment := range comments {
		if comment.Score >= m.threshold {
			continue
		}

		if err := m.client.Delete(ctx, comment.Name); err != nil {
			slog.Error("Failed to delete downvoted comment", "id", comment.ID, "score", comment.Score, "error", err)
			continue
		}

		if m.journal != nil {
			if err := m.journal.MarkDeleted(comment.Name, time.Now()); err != nil {
				slog.Error("Failed to journal retraction", "id", comment.ID, "error", err)
			}
		}

		slog.Info("Removed downvoted comment", "id", comment.ID, "score", comment.Score)

		if ctx.Err() != nil {
			return
		}
	}
}
