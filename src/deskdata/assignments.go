package deskdata

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
)

// Returns the editor's assignment for a category, or nil if they have none.
func FetchAssignment(ctx context.Context, dbConn db.ConnOrTx, editorID int, category models.Category) (*models.EditorialAssignment, error) {
	assignment, err := db.QueryOne[models.EditorialAssignment](ctx, dbConn,
		`
		---- Fetch assignment
		SELECT $columns
		FROM editorial_assignment
		WHERE editor_id = $1 AND category = $2
		`,
		editorID, category,
	)
	if err == db.NotFound {
		return nil, nil
	}
	return assignment, err
}

func FetchAssignmentsForEditor(ctx context.Context, dbConn db.ConnOrTx, editorID int) ([]*models.EditorialAssignment, error) {
	return db.Query[models.EditorialAssignment](ctx, dbConn,
		`
		---- Fetch assignments for editor
		SELECT $columns
		FROM editorial_assignment
		WHERE editor_id = $1
		ORDER BY category
		`,
		editorID,
	)
}

// Creates or replaces the (editor, category) assignment.
func SetAssignment(ctx context.Context, dbConn db.ConnOrTx, editorID int, category models.Category, canApprove, canPublish bool) (*models.EditorialAssignment, error) {
	if !category.Valid() {
		return nil, oops.New(nil, "invalid category '%s'", category)
	}

	assignment, err := db.QueryOne[models.EditorialAssignment](ctx, dbConn,
		`
		---- Set assignment
		INSERT INTO editorial_assignment (editor_id, category, can_approve, can_publish, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (editor_id, category) DO UPDATE
		SET can_approve = EXCLUDED.can_approve, can_publish = EXCLUDED.can_publish
		RETURNING $columns
		`,
		editorID, category, canApprove, canPublish, time.Now(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to set assignment")
	}
	return assignment, nil
}

// Removes an assignment. Takes effect for all subsequent guard checks;
// actions already past their guard are not retroactively invalidated.
func DeleteAssignment(ctx context.Context, dbConn db.ConnOrTx, editorID int, category models.Category) error {
	tag, err := dbConn.Exec(ctx,
		`DELETE FROM editorial_assignment WHERE editor_id = $1 AND category = $2`,
		editorID, category,
	)
	if err != nil {
		return oops.New(err, "failed to delete assignment")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}
