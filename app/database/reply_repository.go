package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ ReplyRepository = (*SQLReplyRepository)(nil)

// SQLReplyRepository handles journal operations for posted replies
type SQLReplyRepository struct {
	db *DB
}

// NewReplyRepository creates a new reply repository
func NewReplyRepository(db *DB) *SQLReplyRepository {
	return &SQLReplyRepository{db: db}
}

// RecordReply inserts a journal row for a posted reply. Re-recording
// the same reply overwrites the row, keeping the call idempotent.
func (r *SQLReplyRepository) RecordReply(reply Reply) error {
	_, err := r.db.Exec(`
		INSERT INTO replies (reply_full_id, item_kind, item_id, url, title, posted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(reply_full_id) DO UPDATE SET
			item_kind = excluded.item_kind,
			item_id = excluded.item_id,
			url = excluded.url,
			title = excluded.title,
			posted_at = excluded.posted_at
	`, reply.ReplyFullID, reply.ItemKind, reply.ItemID, reply.URL, reply.Title, reply.PostedAt.Unix())

	if err != nil {
		return fmt.Errorf("failed to record reply: %w", err)
	}

	return nil
}

// MarkDeleted stamps a journal row as retracted. Unknown reply IDs are
// a no-op: the monitor also sees comments posted before journaling
// existed.
func (r *SQLReplyRepository) MarkDeleted(replyFullID string, deletedAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE replies SET deleted_at = ? WHERE reply_full_id = ? AND deleted_at IS NULL
	`, deletedAt.Unix(), replyFullID)

	if err != nil {
		return fmt.Errorf("failed to mark reply deleted: %w", err)
	}

	return nil
}

// GetStats returns posted and retracted reply counts.
func (r *SQLReplyRepository) GetStats() (Stats, error) {
	var stats Stats

	err := r.db.QueryRow(`
		SELECT COUNT(*), COUNT(deleted_at) FROM replies
	`).Scan(&stats.Posted, &stats.Retracted)

	if err != nil && err != sql.ErrNoRows {
		return Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

// PruneDeleted removes retracted journal rows older than the cutoff and
// returns the number removed.
func (r *SQLReplyRepository) PruneDeleted(olderThan time.Time) (int, error) {
	result, err := r.db.Exec(`
		DELETE FROM replies WHERE deleted_at IS NOT NULL AND deleted_at < ?
	`, olderThan.Unix())

	if err != nil {
		return 0, fmt.Errorf("failed to prune deleted replies: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned replies: %w", err)
	}

	return int(affected), nil
}
