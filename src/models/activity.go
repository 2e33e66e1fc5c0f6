package models

import "time"

type ActivityAction string

const (
	ActivitySubmit         ActivityAction = "submit"
	ActivityAutoPublish    ActivityAction = "auto_publish"
	ActivityStartReview    ActivityAction = "start_review"
	ActivityRequestChanges ActivityAction = "request_changes"
	ActivityApprove        ActivityAction = "approve"
	ActivityReject         ActivityAction = "reject"
	ActivityPublish        ActivityAction = "publish"
	ActivitySchedule       ActivityAction = "schedule_publish"
	ActivityHold           ActivityAction = "hold"
	ActivityResume         ActivityAction = "resume"
	ActivitySetPriority    ActivityAction = "set_priority"
	ActivityUnpublish      ActivityAction = "unpublish"
)

// The activity log is the sole historical record of an article's journey.
// Rows are append-only and ordered by creation time.
type ActivityLogEntry struct {
	ID        int `db:"id"`
	ArticleID int `db:"article_id"`
	ActorID   int `db:"actor_id"`

	Action  ActivityAction `db:"action"`
	Details string         `db:"details"`

	CreatedAt time.Time `db:"created_at"`
}
