package deskdata

import (
	"context"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
)

// Returns the article's review, or nil if the article has never been
// submitted. There is at most one review per article; it survives
// changes-requested cycles.
func FetchReviewForArticle(ctx context.Context, dbConn db.ConnOrTx, articleID int) (*models.EditorialReview, error) {
	review, err := db.QueryOne[models.EditorialReview](ctx, dbConn,
		`
		---- Fetch review for article
		SELECT $columns
		FROM editorial_review
		WHERE article_id = $1
		`,
		articleID,
	)
	if err == db.NotFound {
		return nil, nil
	}
	return review, err
}

type ReviewQueueEntry struct {
	Review  models.EditorialReview `db:"review"`
	Article models.Article         `db:"article"`
}

// The review desk: everything awaiting a reviewer or in review, most urgent
// first, oldest submission first within a priority.
func FetchReviewQueue(ctx context.Context, dbConn db.ConnOrTx) ([]*ReviewQueueEntry, error) {
	return db.Query[ReviewQueueEntry](ctx, dbConn,
		`
		---- Fetch review queue
		SELECT $columns
		FROM
			editorial_review AS review
			JOIN article ON article.id = review.article_id
		WHERE
			article.status = ANY ($1)
		ORDER BY review.priority DESC, review.submitted_at ASC
		`,
		[]models.ArticleStatus{models.ArticleStatusPendingReview, models.ArticleStatusInReview},
	)
}
