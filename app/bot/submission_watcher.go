package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roniemartinez/SiteSummarizerBot/app/dedup"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

var _ Watcher = (*SubmissionWatcher)(nil)

// SubmissionWatcher consumes the feed of new top-level posts in one
// subreddit and drives the reply pipeline for each. Items that existed
// before the watcher connected are skipped.
type SubmissionWatcher struct {
	client    SubmissionSource
	pipeline  *Pipeline
	subreddit string
	interval  time.Duration
	pageSize  int
}

func NewSubmissionWatcher(client SubmissionSource, pipeline *Pipeline, subreddit string, interval time.Duration, pageSize int) *SubmissionWatcher {
	return &SubmissionWatcher{
		client:    client,
		pipeline:  pipeline,
		subreddit: subreddit,
		interval:  interval,
		pageSize:  pageSize,
	}
}

func (w *SubmissionWatcher) Name() string {
	return fmt.Sprintf("submissions:%s", w.subreddit)
}

func (w *SubmissionWatcher) Run(ctx context.Context) error {
	slog.Info("Listening to submission stream", "subreddit", w.subreddit)

	stream := reddit.NewStream(w.Name(),
		func(ctx context.Context) ([]reddit.Submission, error) {
			return w.client.NewSubmissions(ctx, w.subreddit, w.pageSize)
		},
		func(s reddit.Submission) string { return s.Name },
		w.interval, true)

	return stream.Run(ctx, func(ctx context.Context, submission reddit.Submission) {
		item := ItemFromSubmission(submission)
		key := dedup.SubmissionKey(submission.ID)

		w.pipeline.Process(ctx, item, key, func(ctx context.Context, text string) (string, error) {
			return w.client.Reply(ctx, submission.Name, text)
		})
	})
}
