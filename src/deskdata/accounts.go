package deskdata

import (
	"context"
	"errors"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
	"github.com/newsdeskhq/newsdesk/src/perms"
)

func FetchAccount(ctx context.Context, dbConn db.ConnOrTx, accountID int) (*models.Account, error) {
	return db.QueryOne[models.Account](ctx, dbConn,
		`
		---- Fetch account
		SELECT $columns
		FROM account
		WHERE id = $1 AND NOT deleted
		`,
		accountID,
	)
}

func FetchAccountByUsername(ctx context.Context, dbConn db.ConnOrTx, username string) (*models.Account, error) {
	return db.QueryOne[models.Account](ctx, dbConn,
		`
		---- Fetch account by username
		SELECT $columns
		FROM account
		WHERE lower(username) = lower($1) AND NOT deleted
		`,
		username,
	)
}

// Returned by helpers whose operations are themselves permission-gated.
var ErrForbidden = errors.New("actor is not allowed to perform this operation")

// Changes an account's role. Only admins may change roles, and only a super
// admin may grant super admin; both the API and the admin CLI route through
// here so the rule cannot be bypassed.
func SetAccountRole(ctx context.Context, dbConn db.ConnOrTx, actor *models.Account, accountID int, role models.Role) error {
	if !perms.CanGrantRole(actor.Role, role) {
		return ErrForbidden
	}

	tag, err := dbConn.Exec(ctx,
		`UPDATE account SET role = $1 WHERE id = $2 AND NOT deleted`,
		role, accountID,
	)
	if err != nil {
		return oops.New(err, "failed to update account role")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}

// Accounts that own authored content are only ever soft-deleted.
func SoftDeleteAccount(ctx context.Context, dbConn db.ConnOrTx, accountID int) error {
	tag, err := dbConn.Exec(ctx,
		`UPDATE account SET deleted = TRUE WHERE id = $1`,
		accountID,
	)
	if err != nil {
		return oops.New(err, "failed to soft-delete account")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}
	return nil
}
