package bot

import (
	"context"

	"github.com/roniemartinez/SiteSummarizerBot/app/content"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

// ContentResolver obtains the title/summary pair for a candidate URL.
// An empty Summary means there is nothing worth posting.
type ContentResolver interface {
	Resolve(ctx context.Context, pageURL string) (content.Result, error)
}

// ReplyFunc posts the rendered message to the item the pipeline is
// handling and returns the fullname of the posted comment.
// Implementations surface rate-limit rejections as
// *reddit.RateLimitError.
type ReplyFunc func(ctx context.Context, text string) (string, error)

// Watcher is a long-running feed consumer managed by the Supervisor.
type Watcher interface {
	Name() string
	Run(ctx context.Context) error
}

// SubmissionSource is the platform surface the submission watcher
// consumes. *reddit.Client satisfies it.
type SubmissionSource interface {
	NewSubmissions(ctx context.Context, subreddit string, limit int) ([]reddit.Submission, error)
	Reply(ctx context.Context, parentFullID, text string) (string, error)
}

// MentionSource is the platform surface the mention watcher consumes.
type MentionSource interface {
	Mentions(ctx context.Context, limit int) ([]reddit.Comment, error)
	MarkRead(ctx context.Context, fullID string) error
	SubmissionByFullID(ctx context.Context, fullID string) (*reddit.Submission, error)
	Reply(ctx context.Context, parentFullID, text string) (string, error)
}

// CommentSource is the platform surface the downvote monitor consumes.
type CommentSource interface {
	UserComments(ctx context.Context, username string, limit int) ([]reddit.Comment, error)
	Delete(ctx context.Context, fullID string) error
}
