package bot

import "github.com/roniemartinez/SiteSummarizerBot/app/reddit"

// ItemKind tags the platform-event variant an Item was built from.
type ItemKind string

const (
	KindSubmission ItemKind = "submission"
	KindComment    ItemKind = "comment"
)

// Item is the single content variant the pipeline operates on, built
// once from platform payloads so URL extraction is written once
// instead of per concrete type.
type Item struct {
	Kind     ItemKind
	ID       string
	FullID   string
	Author   string
	Title    string
	SelfText string
	LinkURL  string
	IsSelf   bool
}

// ItemFromSubmission builds the pipeline variant for a top-level post.
func ItemFromSubmission(s reddit.Submission) Item {
	return Item{
		Kind:     KindSubmission,
		ID:       s.ID,
		FullID:   s.Name,
		Author:   s.Author,
		Title:    s.Title,
		SelfText: s.SelfText,
		LinkURL:  s.URL,
		IsSelf:   s.IsSelf,
	}
}
