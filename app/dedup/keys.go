package dedup

import "fmt"

// SubmissionKey builds the replied marker key for a submission.
func SubmissionKey(id string) string {
	return fmt.Sprintf("replied:submission:%s", id)
}

// CommentKey builds the replied marker key for a comment or mention.
func CommentKey(id string) string {
	return fmt.Sprintf("replied:comment:%s", id)
}
