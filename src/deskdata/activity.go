package deskdata

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
)

// Appends one entry to an article's activity log. Entries are immutable and
// are the sole source of historical truth for the article's journey, so this
// must be called inside the same transaction as the change it records.
func RecordActivity(
	ctx context.Context,
	dbConn db.ConnOrTx,
	articleID int,
	actorID int,
	action models.ActivityAction,
	details string,
) (*models.ActivityLogEntry, error) {
	entry, err := db.QueryOne[models.ActivityLogEntry](ctx, dbConn,
		`
		---- Record activity
		INSERT INTO activity_log (article_id, actor_id, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING $columns
		`,
		articleID, actorID, action, details, time.Now(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to record activity")
	}
	return entry, nil
}

func FetchActivity(ctx context.Context, dbConn db.ConnOrTx, articleID int) ([]*models.ActivityLogEntry, error) {
	return db.Query[models.ActivityLogEntry](ctx, dbConn,
		`
		---- Fetch activity
		SELECT $columns
		FROM activity_log
		WHERE article_id = $1
		ORDER BY created_at ASC, id ASC
		`,
		articleID,
	)
}
