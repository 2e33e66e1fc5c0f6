package deskdata

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
)

// Appends one feedback entry to a review. Feedback is immutable once
// written; there is deliberately no update or delete counterpart.
func AddFeedback(
	ctx context.Context,
	dbConn db.ConnOrTx,
	reviewID int,
	authorID int,
	feedbackType models.FeedbackType,
	content string,
	isInternal bool,
) (*models.Feedback, error) {
	feedback, err := db.QueryOne[models.Feedback](ctx, dbConn,
		`
		---- Add feedback
		INSERT INTO feedback (review_id, author_id, type, content, is_internal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING $columns
		`,
		reviewID, authorID, feedbackType, content, isInternal, time.Now(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to add feedback")
	}
	return feedback, nil
}

/*
Fetches a review's feedback in creation order. Pass includeInternal=false
when the reader is the article's author: internal feedback must never reach
them.
*/
func FetchFeedback(ctx context.Context, dbConn db.ConnOrTx, reviewID int, includeInternal bool) ([]*models.Feedback, error) {
	var qb db.QueryBuilder
	qb.Add(`
		---- Fetch feedback
		SELECT $columns
		FROM feedback
		WHERE review_id = $?
	`, reviewID)
	if !includeInternal {
		qb.Add(`AND NOT is_internal`)
	}
	qb.Add(`ORDER BY created_at ASC, id ASC`)

	return db.Query[models.Feedback](ctx, dbConn, qb.String(), qb.Args()...)
}
