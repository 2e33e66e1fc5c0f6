/*
Package workflow is the editorial state machine: the one place that moves an
article between statuses. Status columns are never written by anything else.

Each action is a single synchronous unit of work - guard check, validate,
mutate, append logs - executed in one transaction. Guards re-read nothing:
the status the decision was made against is re-asserted by every UPDATE's
WHERE clause, so two racing actions can never both apply from the same
starting state.
*/
package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/deskdata"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
	"github.com/newsdeskhq/newsdesk/src/pubrules"
	"github.com/jackc/pgx/v5/pgconn"
)

// Executes one editorial action against an article and returns the
// resulting status. On any failure the article and its logs are untouched.
func PerformAction(ctx context.Context, dbConn db.ConnOrTx, actorID, articleID int, req Request) (models.ArticleStatus, error) {
	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return 0, oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	actor, err := deskdata.FetchAccount(ctx, tx, actorID)
	if errors.Is(err, db.NotFound) {
		return 0, notFound("account")
	} else if err != nil {
		return 0, oops.New(err, "failed to fetch actor")
	}

	article, err := deskdata.FetchArticle(ctx, tx, articleID)
	if errors.Is(err, db.NotFound) {
		return 0, notFound("article")
	} else if err != nil {
		return 0, oops.New(err, "failed to fetch article")
	}

	rule, err := deskdata.FetchPublishingRule(ctx, tx, article.Category)
	if err != nil {
		return 0, oops.New(err, "failed to fetch publishing rule")
	}

	review, err := deskdata.FetchReviewForArticle(ctx, tx, articleID)
	if err != nil {
		return 0, oops.New(err, "failed to fetch review")
	}

	assignment, err := deskdata.FetchAssignment(ctx, tx, actor.ID, article.Category)
	if err != nil {
		return 0, oops.New(err, "failed to fetch assignment")
	}

	var checklist []pubrules.CheckResult
	if req.Action == ActionApprove {
		checklist = pubrules.Validate(article, rule)
	}

	effects, err := Decide(req, Input{
		Article:    article,
		Actor:      actor,
		Rule:       rule,
		Review:     review,
		Assignment: assignment,
		Checklist:  checklist,
		Now:        time.Now(),
	})
	if err != nil {
		return 0, err
	}

	err = applyEffects(ctx, tx, actor, article, review, req, effects)
	if err != nil {
		return 0, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return 0, oops.New(err, "failed to commit action")
	}

	return effects.NewStatus, nil
}

func applyEffects(
	ctx context.Context,
	tx db.ConnOrTx,
	actor *models.Account,
	article *models.Article,
	review *models.EditorialReview,
	req Request,
	effects Effects,
) error {
	now := time.Now()

	if effects.StatusChanged || effects.Schedule {
		var qb db.QueryBuilder
		qb.Add(`UPDATE article SET updated_at = $?`, now)
		if effects.StatusChanged {
			qb.Add(`, status = $?`, effects.NewStatus)
		}
		if effects.StorePriorStatus {
			qb.Add(`, prior_status = $?`, article.Status)
		}
		if effects.RestorePriorStatus {
			qb.Add(`, prior_status = NULL`)
		}
		if effects.SetPublishedAt {
			qb.Add(`, published_at = $?, scheduled_at = NULL, scheduled_by_id = NULL`, now)
		}
		if effects.Schedule {
			qb.Add(`, scheduled_at = $?, scheduled_by_id = $?`, req.ScheduledAt, actor.ID)
		}
		// The status in the WHERE clause is the status the guards judged.
		// If someone else transitioned the article in the meantime, this
		// matches zero rows and the whole action rolls back.
		qb.Add(`WHERE id = $? AND status = $?`, article.ID, article.Status)

		tag, err := tx.Exec(ctx, qb.String(), qb.Args()...)
		if err != nil {
			return oops.New(err, "failed to update article status")
		}
		if tag.RowsAffected() == 0 {
			return concurrentModification("article")
		}
	}

	if effects.CreateReview {
		created, err := db.QueryOne[models.EditorialReview](ctx, tx,
			`
			---- Create review
			INSERT INTO editorial_review (article_id, priority, submitted_at)
			VALUES ($1, $2, $3)
			RETURNING $columns
			`,
			article.ID, models.ReviewPriorityNormal, now,
		)
		if isUniqueViolation(err) {
			// Another submission created the review first.
			return concurrentModification("review")
		} else if err != nil {
			return oops.New(err, "failed to create review")
		}
		review = created
	}

	if effects.ResetReview {
		_, err := tx.Exec(ctx,
			`UPDATE editorial_review SET reviewer_id = NULL, reviewed_at = NULL WHERE id = $1`,
			review.ID,
		)
		if err != nil {
			return oops.New(err, "failed to reset review")
		}
	}

	if effects.ClaimReviewer {
		tag, err := tx.Exec(ctx,
			`UPDATE editorial_review SET reviewer_id = $1 WHERE id = $2 AND reviewer_id IS NULL`,
			actor.ID, review.ID,
		)
		if err != nil {
			return oops.New(err, "failed to claim review")
		}
		if tag.RowsAffected() == 0 {
			// Two editors raced for the same review; only one may win.
			return concurrentModification("review")
		}
	}

	if effects.MarkReviewed && review != nil {
		_, err := tx.Exec(ctx,
			`UPDATE editorial_review SET reviewed_at = $1 WHERE id = $2`,
			now, review.ID,
		)
		if err != nil {
			return oops.New(err, "failed to mark review reviewed")
		}
	}

	if effects.SetPriority != nil {
		_, err := tx.Exec(ctx,
			`UPDATE editorial_review SET priority = $1 WHERE id = $2`,
			*effects.SetPriority, review.ID,
		)
		if err != nil {
			return oops.New(err, "failed to set review priority")
		}
	}

	_, err := deskdata.RecordActivity(ctx, tx, article.ID, actor.ID, effects.Activity, effects.Details)
	if err != nil {
		return err
	}

	if effects.FeedbackType != 0 && strings.TrimSpace(req.Feedback) != "" && review != nil {
		_, err := deskdata.AddFeedback(ctx, tx, review.ID, actor.ID, effects.FeedbackType, req.Feedback, req.FeedbackInternal)
		if err != nil {
			return err
		}
	}

	return nil
}

// The checklist for an article against its category's current rule, exactly
// as the approve guard will evaluate it. Read-only.
func Checklist(ctx context.Context, dbConn db.ConnOrTx, articleID int) ([]pubrules.CheckResult, error) {
	article, err := deskdata.FetchArticle(ctx, dbConn, articleID)
	if errors.Is(err, db.NotFound) {
		return nil, notFound("article")
	} else if err != nil {
		return nil, oops.New(err, "failed to fetch article")
	}

	rule, err := deskdata.FetchPublishingRule(ctx, dbConn, article.Category)
	if err != nil {
		return nil, oops.New(err, "failed to fetch publishing rule")
	}

	return pubrules.Validate(article, rule), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
