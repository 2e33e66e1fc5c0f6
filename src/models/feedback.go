package models

import "time"

type FeedbackType int

const (
	FeedbackTypeGeneral         FeedbackType = 1
	FeedbackTypeSuggestion      FeedbackType = 2
	FeedbackTypeRevisionRequest FeedbackType = 3
	FeedbackTypeApproval        FeedbackType = 4
	FeedbackTypeRejection       FeedbackType = 5
)

var FeedbackTypeNames = map[FeedbackType]string{
	FeedbackTypeGeneral:         "general",
	FeedbackTypeSuggestion:      "suggestion",
	FeedbackTypeRevisionRequest: "revision_request",
	FeedbackTypeApproval:        "approval",
	FeedbackTypeRejection:       "rejection",
}

func (t FeedbackType) String() string {
	if name, ok := FeedbackTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Feedback rows are append-only; nothing in the codebase updates or deletes
// them after insert. IsInternal never changes either - filtering internal
// feedback away from authors is the reading side's job.
type Feedback struct {
	ID       int `db:"id"`
	ReviewID int `db:"review_id"`
	AuthorID int `db:"author_id"`

	Type       FeedbackType `db:"type"`
	Content    string       `db:"content"`
	IsInternal bool         `db:"is_internal"`

	CreatedAt time.Time `db:"created_at"`
}
