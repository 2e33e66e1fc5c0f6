package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/perms"
	"github.com/newsdeskhq/newsdesk/src/pubrules"
)

// Everything Decide needs to judge one action. The engine assembles this
// from the store inside the action's transaction; tests can build it
// directly.
type Input struct {
	Article    *models.Article
	Actor      *models.Account
	Rule       *models.PublishingRule
	Review     *models.EditorialReview     // nil until first submission
	Assignment *models.EditorialAssignment // nil if the actor has none for this category
	Checklist  []pubrules.CheckResult      // only populated for checklist-gated actions
	Now        time.Time
}

// The writes that applying a legal action requires. Effects describe intent;
// the engine turns them into conditional updates so that racing actions
// cannot both apply.
type Effects struct {
	NewStatus     models.ArticleStatus
	StatusChanged bool

	StorePriorStatus   bool // entering hold: remember where we came from
	RestorePriorStatus bool // leaving hold: NewStatus came from the stored prior status

	CreateReview  bool
	ClaimReviewer bool // start review: take the empty reviewer slot
	ResetReview   bool // resubmission: clear reviewer and reviewed-at
	MarkReviewed  bool

	SetPriority    *models.ReviewPriority
	SetPublishedAt bool
	Schedule       bool // record a deferred publish instead of publishing now

	Activity     models.ActivityAction
	Details      string
	FeedbackType models.FeedbackType // 0 means the action never records feedback
}

/*
Decide is the editorial state machine's guard table: it judges whether the
requested action is legal for this actor from this article's current state,
and if so, which writes applying it requires. It is a pure function; all
state access and all mutation live in the engine.

Guards are checked in a fixed order: transition legality first, then role
and assignment, then action-specific requirements (feedback text, the
publishing checklist). A failure of any guard means no writes at all.
*/
func Decide(req Request, in Input) (Effects, error) {
	article := in.Article
	actor := in.Actor

	switch req.Action {
	case ActionSubmit:
		if article.Status != models.ArticleStatusDraft && article.Status != models.ArticleStatusChangesRequested {
			return Effects{}, illegalTransition("cannot submit from %s", article.Status)
		}
		if actor.ID != article.AuthorID {
			return Effects{}, unauthorized("only the author can submit an article")
		}

		// Trusted authors skip review entirely when the category allows it.
		if !in.Rule.RequiresReview && in.Rule.AutoPublishTrusted && actor.IsTrusted() {
			return Effects{
				NewStatus:      models.ArticleStatusPublished,
				StatusChanged:  true,
				SetPublishedAt: true,
				Activity:       models.ActivityAutoPublish,
				Details:        fmt.Sprintf("submitted from %s and auto-published for trusted author", article.Status),
			}, nil
		}

		return Effects{
			NewStatus:     models.ArticleStatusPendingReview,
			StatusChanged: true,
			CreateReview:  in.Review == nil,
			ResetReview:   in.Review != nil,
			Activity:      models.ActivitySubmit,
		}, nil

	case ActionStartReview:
		if article.Status != models.ArticleStatusPendingReview {
			return Effects{}, illegalTransition("cannot start review from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleEditor) {
			return Effects{}, unauthorized("starting a review requires editor role")
		}
		if in.Review == nil {
			return Effects{}, notFound("review")
		}
		if in.Review.ReviewerID != nil {
			return Effects{}, illegalTransition("review is already claimed")
		}

		return Effects{
			NewStatus:     models.ArticleStatusInReview,
			StatusChanged: true,
			ClaimReviewer: true,
			Activity:      models.ActivityStartReview,
		}, nil

	case ActionRequestChanges:
		if article.Status != models.ArticleStatusInReview && article.Status != models.ArticleStatusPendingReview {
			return Effects{}, illegalTransition("cannot request changes from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleEditor) {
			return Effects{}, unauthorized("requesting changes requires editor role")
		}
		if strings.TrimSpace(req.Feedback) == "" {
			return Effects{}, missingFeedback(req.Action)
		}

		return Effects{
			NewStatus:     models.ArticleStatusChangesRequested,
			StatusChanged: true,
			MarkReviewed:  true,
			Activity:      models.ActivityRequestChanges,
			FeedbackType:  models.FeedbackTypeRevisionRequest,
		}, nil

	case ActionApprove:
		if article.Status != models.ArticleStatusInReview && article.Status != models.ArticleStatusPendingReview {
			return Effects{}, illegalTransition("cannot approve from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleAdmin) && !(in.Assignment != nil && in.Assignment.CanApprove) {
			return Effects{}, unauthorized("approving requires admin role or an approval assignment for %s", article.Category)
		}
		if !pubrules.AllPassed(in.Checklist) {
			return Effects{}, validationFailed(in.Checklist)
		}

		return Effects{
			NewStatus:     models.ArticleStatusApproved,
			StatusChanged: true,
			MarkReviewed:  true,
			Activity:      models.ActivityApprove,
			FeedbackType:  models.FeedbackTypeApproval, // recorded only if text was supplied
		}, nil

	case ActionReject:
		if article.Status != models.ArticleStatusInReview && article.Status != models.ArticleStatusPendingReview {
			return Effects{}, illegalTransition("cannot reject from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleAdmin) {
			return Effects{}, unauthorized("rejecting requires admin role")
		}
		if strings.TrimSpace(req.Feedback) == "" {
			return Effects{}, missingFeedback(req.Action)
		}

		return Effects{
			NewStatus:     models.ArticleStatusRejected,
			StatusChanged: true,
			MarkReviewed:  true,
			Activity:      models.ActivityReject,
			FeedbackType:  models.FeedbackTypeRejection,
		}, nil

	case ActionPublish:
		if article.Status != models.ArticleStatusApproved {
			return Effects{}, illegalTransition("cannot publish from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleAdmin) && !(in.Assignment != nil && in.Assignment.CanPublish) {
			return Effects{}, unauthorized("publishing requires admin role or a publish assignment for %s", article.Category)
		}

		details := publishDetails(req)
		if req.ScheduledAt != nil && req.ScheduledAt.After(in.Now) {
			return Effects{
				NewStatus: article.Status,
				Schedule:  true,
				Activity:  models.ActivitySchedule,
				Details:   details,
			}, nil
		}

		return Effects{
			NewStatus:      models.ArticleStatusPublished,
			StatusChanged:  true,
			SetPublishedAt: true,
			Activity:       models.ActivityPublish,
			Details:        details,
		}, nil

	case ActionHold:
		if article.Status.IsTerminal() {
			return Effects{}, illegalTransition("cannot hold a %s article", article.Status)
		}
		if article.Status == models.ArticleStatusOnHold {
			return Effects{}, illegalTransition("article is already on hold")
		}
		if !perms.HasPermission(actor.Role, models.RoleEditor) {
			return Effects{}, unauthorized("holding requires editor role")
		}

		return Effects{
			NewStatus:        models.ArticleStatusOnHold,
			StatusChanged:    true,
			StorePriorStatus: true,
			Activity:         models.ActivityHold,
			Details:          fmt.Sprintf("held from %s", article.Status),
		}, nil

	case ActionResume:
		if article.Status != models.ArticleStatusOnHold {
			return Effects{}, illegalTransition("cannot resume from %s", article.Status)
		}
		if !perms.HasPermission(actor.Role, models.RoleEditor) {
			return Effects{}, unauthorized("resuming requires editor role")
		}
		if article.PriorStatus == nil {
			return Effects{}, illegalTransition("article on hold has no prior status")
		}

		return Effects{
			NewStatus:          *article.PriorStatus,
			StatusChanged:      true,
			RestorePriorStatus: true,
			Activity:           models.ActivityResume,
			Details:            fmt.Sprintf("resumed to %s", *article.PriorStatus),
		}, nil

	case ActionAssign:
		if !perms.HasPermission(actor.Role, models.RoleEditor) {
			return Effects{}, unauthorized("setting priority requires editor role")
		}
		if in.Review == nil {
			return Effects{}, notFound("review")
		}
		if req.Priority == nil || !req.Priority.Valid() {
			return Effects{}, illegalTransition("assign requires a valid priority")
		}

		return Effects{
			NewStatus:   article.Status,
			SetPriority: req.Priority,
			Activity:    models.ActivitySetPriority,
			Details:     fmt.Sprintf("priority=%s", *req.Priority),
		}, nil

	default:
		return Effects{}, illegalTransition("unknown action '%s'", req.Action)
	}
}

func publishDetails(req Request) string {
	var parts []string
	if req.ScheduledAt != nil {
		parts = append(parts, fmt.Sprintf("scheduled_at=%s", req.ScheduledAt.UTC().Format(time.RFC3339)))
	}
	if req.AddToHomepage {
		parts = append(parts, "add_to_homepage=true")
	}
	if req.SocialShare {
		parts = append(parts, "social_share=true")
	}
	return strings.Join(parts, " ")
}
