package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A db.ConnOrTx whose writes we script and record, so the lost-race
// branches of applyEffects can fire without a real database.
type stubConn struct {
	execTags []pgconn.CommandTag
	execs    []string

	queryErr error
	queries  []string
}

func (c *stubConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.execs = append(c.execs, sql)
	tag := c.execTags[0]
	if len(c.execTags) > 1 {
		c.execTags = c.execTags[1:]
	}
	return tag, nil
}

func (c *stubConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.queries = append(c.queries, sql)
	return nil, c.queryErr
}

func (c *stubConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("unexpected QueryRow")
}

func (c *stubConn) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom")
}

func (c *stubConn) Begin(ctx context.Context) (pgx.Tx, error) {
	panic("unexpected Begin")
}

func startReviewEffects(t *testing.T, article *models.Article, editor *models.Account, review *models.EditorialReview) Effects {
	rule := models.DefaultPublishingRule(article.Category)
	effects, err := Decide(requestFor(ActionStartReview), Input{
		Article: article,
		Actor:   editor,
		Rule:    &rule,
		Review:  review,
		Now:     time.Now(),
	})
	require.NoError(t, err)
	require.True(t, effects.StatusChanged)
	require.True(t, effects.ClaimReviewer)
	return effects
}

// If another action moved the article off the status the guards judged,
// the conditional status UPDATE matches zero rows. The whole action must
// come back as a concurrent modification with nothing else written.
func TestStatusUpdateLosesRace(t *testing.T) {
	article := testArticle(models.ArticleStatusPendingReview)
	editor := testActor(20, models.RoleEditor)
	review := testReview(nil)
	effects := startReviewEffects(t, article, editor, review)

	conn := &stubConn{execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 0")}}
	err := applyEffects(context.Background(), conn, editor, article, review, requestFor(ActionStartReview), effects)

	assert.Equal(t, KindConcurrentModification, KindOf(err))
	assert.Len(t, conn.execs, 1, "no writes may follow a lost status race")
	assert.Empty(t, conn.queries)
}

// Two editors grabbing the same review simultaneously: the claim UPDATE is
// guarded by reviewer_id IS NULL, so exactly one of them matches a row.
// The loser's action rolls back after the claim attempt.
func TestReviewerClaimLosesRace(t *testing.T) {
	article := testArticle(models.ArticleStatusPendingReview)
	editor := testActor(20, models.RoleEditor)
	review := testReview(nil)
	effects := startReviewEffects(t, article, editor, review)

	conn := &stubConn{execTags: []pgconn.CommandTag{
		pgconn.NewCommandTag("UPDATE 1"), // status flips fine
		pgconn.NewCommandTag("UPDATE 0"), // but the reviewer slot is already taken
	}}
	err := applyEffects(context.Background(), conn, editor, article, review, requestFor(ActionStartReview), effects)

	assert.Equal(t, KindConcurrentModification, KindOf(err))
	assert.Len(t, conn.execs, 2, "no writes may follow a lost claim race")
	assert.Empty(t, conn.queries)
}

// Two simultaneous first submissions both pass the guards, but the unique
// index on editorial_review.article_id only admits one INSERT. The unique
// violation surfaces as a concurrent modification, not a raw pg error.
func TestReviewInsertLosesRace(t *testing.T) {
	article := testArticle(models.ArticleStatusDraft)
	author := testActor(10, models.RoleAuthor)

	rule := models.DefaultPublishingRule(article.Category)
	effects, err := Decide(requestFor(ActionSubmit), Input{
		Article: article,
		Actor:   author,
		Rule:    &rule,
		Now:     time.Now(),
	})
	require.NoError(t, err)
	require.True(t, effects.CreateReview)

	conn := &stubConn{
		execTags: []pgconn.CommandTag{pgconn.NewCommandTag("UPDATE 1")},
		queryErr: &pgconn.PgError{Code: "23505", ConstraintName: "editorial_review_article_id_key"},
	}
	err = applyEffects(context.Background(), conn, author, article, nil, requestFor(ActionSubmit), effects)

	assert.Equal(t, KindConcurrentModification, KindOf(err))
	assert.Len(t, conn.queries, 1, "the action stops at the failed INSERT")
}
