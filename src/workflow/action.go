package workflow

import (
	"time"

	"github.com/newsdeskhq/newsdesk/src/models"
)

type Action string

const (
	ActionSubmit         Action = "submit"
	ActionStartReview    Action = "start_review"
	ActionRequestChanges Action = "request_changes"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionPublish        Action = "publish"
	ActionHold           Action = "hold"
	ActionResume         Action = "resume"
	ActionAssign         Action = "assign"
)

var AllActions = []Action{
	ActionSubmit,
	ActionStartReview,
	ActionRequestChanges,
	ActionApprove,
	ActionReject,
	ActionPublish,
	ActionHold,
	ActionResume,
	ActionAssign,
}

func ParseAction(name string) (Action, bool) {
	for _, action := range AllActions {
		if string(action) == name {
			return action, true
		}
	}
	return "", false
}

// One actor request against one article. Everything beyond Action is
// optional payload; which fields matter depends on the action.
type Request struct {
	Action Action

	Feedback         string
	FeedbackInternal bool
	Priority         *models.ReviewPriority

	// For publish: defer the actual publication until this time. The
	// placement/share flags are recorded for external collaborators; this
	// core does not act on them.
	ScheduledAt   *time.Time
	AddToHomepage bool
	SocialShare   bool
}
