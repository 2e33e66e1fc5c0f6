package models

import "time"

type ReviewPriority int

const (
	ReviewPriorityLow    ReviewPriority = 1
	ReviewPriorityNormal ReviewPriority = 2
	ReviewPriorityHigh   ReviewPriority = 3
	ReviewPriorityUrgent ReviewPriority = 4
)

var ReviewPriorityNames = map[ReviewPriority]string{
	ReviewPriorityLow:    "low",
	ReviewPriorityNormal: "normal",
	ReviewPriorityHigh:   "high",
	ReviewPriorityUrgent: "urgent",
}

func (p ReviewPriority) String() string {
	if name, ok := ReviewPriorityNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p ReviewPriority) Valid() bool {
	_, ok := ReviewPriorityNames[p]
	return ok
}

func ParseReviewPriority(name string) (ReviewPriority, bool) {
	for priority, priorityName := range ReviewPriorityNames {
		if priorityName == name {
			return priority, true
		}
	}
	return 0, false
}

// One review per article. It is created on first submission and survives
// changes-requested cycles; it is never recreated.
type EditorialReview struct {
	ID        int `db:"id"`
	ArticleID int `db:"article_id"`

	Priority   ReviewPriority `db:"priority"`
	ReviewerID *int           `db:"reviewer_id"`

	SubmittedAt time.Time  `db:"submitted_at"`
	ReviewedAt  *time.Time `db:"reviewed_at"`
	Deadline    *time.Time `db:"deadline"`
}
