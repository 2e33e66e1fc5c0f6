package models

import "time"

// An explicit per-editor, per-category grant. The workflow consults these as
// an alternative to the baseline role guards: an editor with CanPublish may
// publish in their category even though the role guard alone requires admin.
type EditorialAssignment struct {
	ID int `db:"id"`

	EditorID int      `db:"editor_id"`
	Category Category `db:"category"`

	CanApprove bool `db:"can_approve"`
	CanPublish bool `db:"can_publish"`

	CreatedAt time.Time `db:"created_at"`
}
