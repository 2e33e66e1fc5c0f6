package workflow

import (
	"fmt"
	"testing"
	"time"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/pubrules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []models.ArticleStatus{
	models.ArticleStatusDraft,
	models.ArticleStatusPendingReview,
	models.ArticleStatusInReview,
	models.ArticleStatusChangesRequested,
	models.ArticleStatusApproved,
	models.ArticleStatusPublished,
	models.ArticleStatusRejected,
	models.ArticleStatusOnHold,
}

var allRoles = []models.Role{
	models.RoleContributor,
	models.RoleAuthor,
	models.RoleSeniorWriter,
	models.RoleEditor,
	models.RoleAdmin,
	models.RoleSuperAdmin,
}

func testArticle(status models.ArticleStatus) *models.Article {
	return &models.Article{
		ID:       1,
		AuthorID: 10,
		Category: models.CategoryNews,
		Title:    "A headline",
		Body:     "Some body text",
		Status:   status,
	}
}

func testActor(id int, role models.Role) *models.Account {
	return &models.Account{ID: id, Username: fmt.Sprintf("actor%d", id), Role: role}
}

func testReview(reviewerID *int) *models.EditorialReview {
	return &models.EditorialReview{
		ID:          7,
		ArticleID:   1,
		Priority:    models.ReviewPriorityNormal,
		ReviewerID:  reviewerID,
		SubmittedAt: time.Now(),
	}
}

func passingChecklist() []pubrules.CheckResult {
	return []pubrules.CheckResult{
		{Check: pubrules.CheckMinWordCount, Passed: true},
		{Check: pubrules.CheckExcerpt, Passed: true},
	}
}

// baseInput builds an Input that satisfies every non-transition guard for
// the given action, so transition and role tests fail only on the guard
// under test.
func baseInput(article *models.Article, actor *models.Account) Input {
	reviewerID := 20
	rule := models.DefaultPublishingRule(article.Category)
	return Input{
		Article:   article,
		Actor:     actor,
		Rule:      &rule,
		Review:    testReview(&reviewerID),
		Checklist: passingChecklist(),
		Now:       time.Now(),
	}
}

func requestFor(action Action) Request {
	req := Request{Action: action, Feedback: "Looks fine."}
	if action == ActionAssign {
		priority := models.ReviewPriorityHigh
		req.Priority = &priority
	}
	return req
}

// Every action has a fixed set of statuses it may fire from. Everything
// else must come back as an illegal transition, for every role, with no
// effects.
func TestTransitionTable(t *testing.T) {
	legalFrom := map[Action][]models.ArticleStatus{
		ActionSubmit:         {models.ArticleStatusDraft, models.ArticleStatusChangesRequested},
		ActionStartReview:    {models.ArticleStatusPendingReview},
		ActionRequestChanges: {models.ArticleStatusPendingReview, models.ArticleStatusInReview},
		ActionApprove:        {models.ArticleStatusPendingReview, models.ArticleStatusInReview},
		ActionReject:         {models.ArticleStatusPendingReview, models.ArticleStatusInReview},
		ActionPublish:        {models.ArticleStatusApproved},
		ActionHold: {
			models.ArticleStatusDraft, models.ArticleStatusPendingReview, models.ArticleStatusInReview,
			models.ArticleStatusChangesRequested, models.ArticleStatusApproved,
		},
		ActionResume: {models.ArticleStatusOnHold},
	}

	for action, legal := range legalFrom {
		legalSet := make(map[models.ArticleStatus]bool)
		for _, status := range legal {
			legalSet[status] = true
		}
		for _, status := range allStatuses {
			t.Run(fmt.Sprintf("%s from %s", action, status), func(t *testing.T) {
				article := testArticle(status)
				if status == models.ArticleStatusOnHold {
					prior := models.ArticleStatusInReview
					article.PriorStatus = &prior
				}
				actor := testActor(article.AuthorID, models.RoleSuperAdmin)
				in := baseInput(article, actor)
				if action == ActionStartReview {
					in.Review = testReview(nil)
				}

				effects, err := Decide(requestFor(action), in)
				if legalSet[status] {
					require.NoError(t, err)
					assert.NotEmpty(t, effects.Activity)
				} else {
					assert.Equal(t, KindIllegalTransition, KindOf(err))
					assert.Zero(t, effects)
				}
			})
		}
	}
}

// Replaying an action that already completed must fail cleanly: the
// terminal statuses accept nothing but hold-exempt reads.
func TestTerminalStatusesAreFinal(t *testing.T) {
	for _, status := range []models.ArticleStatus{models.ArticleStatusPublished, models.ArticleStatusRejected} {
		for _, action := range []Action{ActionSubmit, ActionStartReview, ActionRequestChanges, ActionApprove, ActionReject, ActionPublish, ActionHold} {
			t.Run(fmt.Sprintf("%s on %s", action, status), func(t *testing.T) {
				article := testArticle(status)
				actor := testActor(article.AuthorID, models.RoleSuperAdmin)
				_, err := Decide(requestFor(action), baseInput(article, actor))
				assert.Equal(t, KindIllegalTransition, KindOf(err))
			})
		}
	}
}

// The minimum role for each action, checked across the whole hierarchy
// from the action's legal starting status.
func TestRoleGuards(t *testing.T) {
	minRole := map[Action]models.Role{
		ActionStartReview:    models.RoleEditor,
		ActionRequestChanges: models.RoleEditor,
		ActionApprove:        models.RoleAdmin,
		ActionReject:         models.RoleAdmin,
		ActionPublish:        models.RoleAdmin,
		ActionHold:           models.RoleEditor,
		ActionResume:         models.RoleEditor,
		ActionAssign:         models.RoleEditor,
	}
	startStatus := map[Action]models.ArticleStatus{
		ActionStartReview:    models.ArticleStatusPendingReview,
		ActionRequestChanges: models.ArticleStatusInReview,
		ActionApprove:        models.ArticleStatusInReview,
		ActionReject:         models.ArticleStatusInReview,
		ActionPublish:        models.ArticleStatusApproved,
		ActionHold:           models.ArticleStatusDraft,
		ActionResume:         models.ArticleStatusOnHold,
		ActionAssign:         models.ArticleStatusInReview,
	}

	for action, min := range minRole {
		for _, role := range allRoles {
			t.Run(fmt.Sprintf("%s as %s", action, role), func(t *testing.T) {
				article := testArticle(startStatus[action])
				if article.Status == models.ArticleStatusOnHold {
					prior := models.ArticleStatusDraft
					article.PriorStatus = &prior
				}
				actor := testActor(99, role)
				in := baseInput(article, actor)
				if action == ActionStartReview {
					in.Review = testReview(nil)
				}

				_, err := Decide(requestFor(action), in)
				if role >= min {
					assert.NoError(t, err)
				} else {
					assert.Equal(t, KindUnauthorized, KindOf(err))
				}
			})
		}
	}
}

func TestSubmit(t *testing.T) {
	t.Run("only the author may submit", func(t *testing.T) {
		article := testArticle(models.ArticleStatusDraft)
		notAuthor := testActor(article.AuthorID+1, models.RoleSuperAdmin)
		_, err := Decide(Request{Action: ActionSubmit}, baseInput(article, notAuthor))
		assert.Equal(t, KindUnauthorized, KindOf(err))
	})

	t.Run("first submission creates the review", func(t *testing.T) {
		article := testArticle(models.ArticleStatusDraft)
		in := baseInput(article, testActor(article.AuthorID, models.RoleContributor))
		in.Review = nil

		effects, err := Decide(Request{Action: ActionSubmit}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPendingReview, effects.NewStatus)
		assert.True(t, effects.CreateReview)
		assert.False(t, effects.ResetReview)
	})

	t.Run("resubmission reuses and resets the review", func(t *testing.T) {
		article := testArticle(models.ArticleStatusChangesRequested)
		in := baseInput(article, testActor(article.AuthorID, models.RoleContributor))

		effects, err := Decide(Request{Action: ActionSubmit}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPendingReview, effects.NewStatus)
		assert.False(t, effects.CreateReview)
		assert.True(t, effects.ResetReview)
	})

	t.Run("trusted author auto-publishes when the category allows", func(t *testing.T) {
		article := testArticle(models.ArticleStatusDraft)
		in := baseInput(article, testActor(article.AuthorID, models.RoleSeniorWriter))
		in.Review = nil
		in.Rule = &models.PublishingRule{
			Category:           article.Category,
			RequiresReview:     false,
			AutoPublishTrusted: true,
		}

		effects, err := Decide(Request{Action: ActionSubmit}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPublished, effects.NewStatus)
		assert.True(t, effects.SetPublishedAt)
		assert.Equal(t, models.ActivityAutoPublish, effects.Activity)
		assert.False(t, effects.CreateReview)
	})

	t.Run("untrusted author goes through review regardless", func(t *testing.T) {
		article := testArticle(models.ArticleStatusDraft)
		in := baseInput(article, testActor(article.AuthorID, models.RoleAuthor))
		in.Review = nil
		in.Rule = &models.PublishingRule{
			Category:           article.Category,
			RequiresReview:     false,
			AutoPublishTrusted: true,
		}

		effects, err := Decide(Request{Action: ActionSubmit}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPendingReview, effects.NewStatus)
	})
}

func TestStartReview(t *testing.T) {
	t.Run("claims the empty reviewer slot", func(t *testing.T) {
		article := testArticle(models.ArticleStatusPendingReview)
		in := baseInput(article, testActor(30, models.RoleEditor))
		in.Review = testReview(nil)

		effects, err := Decide(Request{Action: ActionStartReview}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusInReview, effects.NewStatus)
		assert.True(t, effects.ClaimReviewer)
	})

	t.Run("claimed review cannot be started again", func(t *testing.T) {
		article := testArticle(models.ArticleStatusPendingReview)
		in := baseInput(article, testActor(30, models.RoleEditor))

		_, err := Decide(Request{Action: ActionStartReview}, in)
		assert.Equal(t, KindIllegalTransition, KindOf(err))
	})
}

func TestFeedbackRequired(t *testing.T) {
	for _, action := range []Action{ActionRequestChanges, ActionReject} {
		t.Run(string(action), func(t *testing.T) {
			article := testArticle(models.ArticleStatusInReview)
			in := baseInput(article, testActor(30, models.RoleAdmin))

			_, err := Decide(Request{Action: action, Feedback: "   "}, in)
			assert.Equal(t, KindMissingFeedback, KindOf(err))

			effects, err := Decide(Request{Action: action, Feedback: "Needs a rewrite."}, in)
			require.NoError(t, err)
			assert.True(t, effects.MarkReviewed)
			assert.NotZero(t, effects.FeedbackType)
		})
	}
}

func TestApprove(t *testing.T) {
	t.Run("fails with the full checklist when rules are not met", func(t *testing.T) {
		article := testArticle(models.ArticleStatusInReview)
		in := baseInput(article, testActor(30, models.RoleAdmin))
		in.Checklist = []pubrules.CheckResult{
			{Check: pubrules.CheckMinWordCount, Passed: false, Detail: "too short"},
			{Check: pubrules.CheckRequiredTags, Passed: true},
			{Check: pubrules.CheckFeaturedImage, Passed: false, Detail: "missing"},
		}

		_, err := Decide(Request{Action: ActionApprove}, in)
		require.Equal(t, KindValidationFailed, KindOf(err))

		var actionErr *ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Len(t, actionErr.Checklist, 3)
	})

	t.Run("assignment grants approval below admin", func(t *testing.T) {
		article := testArticle(models.ArticleStatusInReview)
		in := baseInput(article, testActor(30, models.RoleEditor))

		_, err := Decide(Request{Action: ActionApprove}, in)
		assert.Equal(t, KindUnauthorized, KindOf(err))

		in.Assignment = &models.EditorialAssignment{
			EditorID:   30,
			Category:   article.Category,
			CanApprove: true,
		}
		effects, err := Decide(Request{Action: ActionApprove}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusApproved, effects.NewStatus)
	})

	t.Run("assignment for approval does not grant publishing", func(t *testing.T) {
		article := testArticle(models.ArticleStatusApproved)
		in := baseInput(article, testActor(30, models.RoleEditor))
		in.Assignment = &models.EditorialAssignment{
			EditorID:   30,
			Category:   article.Category,
			CanApprove: true,
		}

		_, err := Decide(Request{Action: ActionPublish}, in)
		assert.Equal(t, KindUnauthorized, KindOf(err))
	})
}

func TestPublish(t *testing.T) {
	t.Run("immediate publish sets the published time", func(t *testing.T) {
		article := testArticle(models.ArticleStatusApproved)
		in := baseInput(article, testActor(30, models.RoleAdmin))

		effects, err := Decide(Request{Action: ActionPublish, AddToHomepage: true}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPublished, effects.NewStatus)
		assert.True(t, effects.SetPublishedAt)
		assert.Contains(t, effects.Details, "add_to_homepage=true")
	})

	t.Run("future time defers the publish", func(t *testing.T) {
		article := testArticle(models.ArticleStatusApproved)
		in := baseInput(article, testActor(30, models.RoleAdmin))
		later := in.Now.Add(2 * time.Hour)

		effects, err := Decide(Request{Action: ActionPublish, ScheduledAt: &later}, in)
		require.NoError(t, err)
		assert.False(t, effects.StatusChanged)
		assert.True(t, effects.Schedule)
		assert.Equal(t, models.ActivitySchedule, effects.Activity)
	})

	t.Run("past scheduled time publishes immediately", func(t *testing.T) {
		article := testArticle(models.ArticleStatusApproved)
		in := baseInput(article, testActor(30, models.RoleAdmin))
		earlier := in.Now.Add(-time.Minute)

		effects, err := Decide(Request{Action: ActionPublish, ScheduledAt: &earlier}, in)
		require.NoError(t, err)
		assert.True(t, effects.StatusChanged)
		assert.Equal(t, models.ArticleStatusPublished, effects.NewStatus)
	})

	t.Run("publish assignment grants publishing below admin", func(t *testing.T) {
		article := testArticle(models.ArticleStatusApproved)
		in := baseInput(article, testActor(30, models.RoleEditor))
		in.Assignment = &models.EditorialAssignment{
			EditorID:   30,
			Category:   article.Category,
			CanPublish: true,
		}

		effects, err := Decide(Request{Action: ActionPublish}, in)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusPublished, effects.NewStatus)
	})
}

func TestHoldResume(t *testing.T) {
	t.Run("hold remembers the prior status and resume restores it", func(t *testing.T) {
		article := testArticle(models.ArticleStatusInReview)
		editor := testActor(30, models.RoleEditor)

		held, err := Decide(Request{Action: ActionHold}, baseInput(article, editor))
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusOnHold, held.NewStatus)
		assert.True(t, held.StorePriorStatus)

		// As the engine would leave it after applying the hold.
		prior := article.Status
		article.Status = models.ArticleStatusOnHold
		article.PriorStatus = &prior

		resumed, err := Decide(Request{Action: ActionResume}, baseInput(article, editor))
		require.NoError(t, err)
		assert.Equal(t, models.ArticleStatusInReview, resumed.NewStatus)
		assert.True(t, resumed.RestorePriorStatus)
	})

	t.Run("hold on hold is rejected", func(t *testing.T) {
		article := testArticle(models.ArticleStatusOnHold)
		_, err := Decide(Request{Action: ActionHold}, baseInput(article, testActor(30, models.RoleEditor)))
		assert.Equal(t, KindIllegalTransition, KindOf(err))
	})
}

func TestAssign(t *testing.T) {
	t.Run("sets priority without touching status", func(t *testing.T) {
		article := testArticle(models.ArticleStatusPendingReview)
		priority := models.ReviewPriorityUrgent

		effects, err := Decide(Request{Action: ActionAssign, Priority: &priority}, baseInput(article, testActor(30, models.RoleEditor)))
		require.NoError(t, err)
		assert.False(t, effects.StatusChanged)
		require.NotNil(t, effects.SetPriority)
		assert.Equal(t, models.ReviewPriorityUrgent, *effects.SetPriority)
	})

	t.Run("requires a valid priority", func(t *testing.T) {
		article := testArticle(models.ArticleStatusPendingReview)
		_, err := Decide(Request{Action: ActionAssign}, baseInput(article, testActor(30, models.RoleEditor)))
		assert.Error(t, err)
	})
}

// The full editorial round trip for an article that gets sent back once:
// the guards alone must permit draft -> pending -> in review -> changes
// requested -> pending -> in review -> approved -> published.
func TestEditorialRoundTrip(t *testing.T) {
	article := testArticle(models.ArticleStatusDraft)
	author := testActor(article.AuthorID, models.RoleAuthor)
	editor := testActor(30, models.RoleEditor)
	admin := testActor(40, models.RoleAdmin)

	step := func(req Request, actor *models.Account, reviewerID *int) Effects {
		t.Helper()
		in := baseInput(article, actor)
		in.Review = testReview(reviewerID)
		effects, err := Decide(req, in)
		require.NoError(t, err)
		if effects.StatusChanged {
			article.Status = effects.NewStatus
		}
		return effects
	}

	reviewer := editor.ID
	step(Request{Action: ActionSubmit}, author, nil)
	assert.Equal(t, models.ArticleStatusPendingReview, article.Status)

	step(Request{Action: ActionStartReview}, editor, nil)
	assert.Equal(t, models.ArticleStatusInReview, article.Status)

	effects := step(Request{Action: ActionRequestChanges, Feedback: "Tighten the lede."}, editor, &reviewer)
	assert.Equal(t, models.ArticleStatusChangesRequested, article.Status)
	assert.Equal(t, models.FeedbackTypeRevisionRequest, effects.FeedbackType)

	effects = step(Request{Action: ActionSubmit}, author, &reviewer)
	assert.Equal(t, models.ArticleStatusPendingReview, article.Status)
	assert.True(t, effects.ResetReview, "resubmission must free the review for claiming")

	step(Request{Action: ActionStartReview}, editor, nil)
	step(Request{Action: ActionApprove}, admin, &reviewer)
	assert.Equal(t, models.ArticleStatusApproved, article.Status)

	step(Request{Action: ActionPublish}, admin, &reviewer)
	assert.Equal(t, models.ArticleStatusPublished, article.Status)
}
