package database

import "time"

// Reply is a journal row for a comment the bot has posted. The journal
// is observability only: the dedup store, not the journal, decides
// whether an item gets a reply.
type Reply struct {
	ReplyFullID string
	ItemKind    string
	ItemID      string
	URL         string
	Title       string
	PostedAt    time.Time
	DeletedAt   *time.Time
}

// Stats summarizes journal contents for the status endpoint.
type Stats struct {
	Posted    int
	Retracted int
}

type ReplyRepository interface {
	RecordReply(reply Reply) error
	MarkDeleted(replyFullID string, deletedAt time.Time) error
	GetStats() (Stats, error)
	PruneDeleted(olderThan time.Time) (int, error)
}
