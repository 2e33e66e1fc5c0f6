package deskdata

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
	"github.com/google/uuid"
)

func FetchArticle(ctx context.Context, dbConn db.ConnOrTx, articleID int) (*models.Article, error) {
	return db.QueryOne[models.Article](ctx, dbConn,
		`
		---- Fetch article
		SELECT $columns
		FROM article
		WHERE id = $1
		`,
		articleID,
	)
}

type ArticlesQuery struct {
	AuthorIDs  []int
	Categories []models.Category
	Statuses   []models.ArticleStatus

	Limit, Offset int
}

func FetchArticles(ctx context.Context, dbConn db.ConnOrTx, q ArticlesQuery) ([]*models.Article, error) {
	var qb db.QueryBuilder
	qb.Add(`
		---- Fetch articles
		SELECT $columns
		FROM article
		WHERE TRUE
	`)
	if len(q.AuthorIDs) > 0 {
		qb.Add(`AND author_id = ANY ($?)`, q.AuthorIDs)
	}
	if len(q.Categories) > 0 {
		qb.Add(`AND category = ANY ($?)`, q.Categories)
	}
	if len(q.Statuses) > 0 {
		qb.Add(`AND status = ANY ($?)`, q.Statuses)
	}
	qb.Add(`ORDER BY created_at DESC`)
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	return db.Query[models.Article](ctx, dbConn, qb.String(), qb.Args()...)
}

type CreateArticleInput struct {
	AuthorID        int
	Category        models.Category
	Title           string
	Body            string
	Tags            []string
	FeaturedImageID *uuid.UUID
	Excerpt         string
	MetaDescription string
}

func CreateArticle(ctx context.Context, dbConn db.ConnOrTx, input CreateArticleInput) (*models.Article, error) {
	if !input.Category.Valid() {
		return nil, oops.New(nil, "invalid category '%s'", input.Category)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	article, err := db.QueryOne[models.Article](ctx, dbConn,
		`
		---- Create article
		INSERT INTO article (author_id, category, title, body, status, tags, featured_image_id, excerpt, meta_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING $columns
		`,
		input.AuthorID,
		input.Category,
		input.Title,
		input.Body,
		models.ArticleStatusDraft,
		tags,
		input.FeaturedImageID,
		input.Excerpt,
		input.MetaDescription,
		time.Now(),
	)
	if err != nil {
		return nil, oops.New(err, "failed to create article")
	}
	return article, nil
}

/*
Takes a published article back to draft. This is deliberately not a workflow
action: the editorial state machine treats published as terminal, and
unpublishing is a rarer administrative operation with its own, simpler rules.
*/
func UnpublishArticle(ctx context.Context, dbConn db.ConnOrTx, actor *models.Account, articleID int) error {
	if actor.Role < models.RoleAdmin {
		return ErrForbidden
	}

	tx, err := dbConn.Begin(ctx)
	if err != nil {
		return oops.New(err, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`
		UPDATE article
		SET status = $1, published_at = NULL, scheduled_at = NULL, scheduled_by_id = NULL, updated_at = $2
		WHERE id = $3 AND status = $4
		`,
		models.ArticleStatusDraft,
		time.Now(),
		articleID,
		models.ArticleStatusPublished,
	)
	if err != nil {
		return oops.New(err, "failed to unpublish article")
	}
	if tag.RowsAffected() == 0 {
		return db.NotFound
	}

	_, err = RecordActivity(ctx, tx, articleID, actor.ID, models.ActivityUnpublish, "")
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return oops.New(err, "failed to commit unpublish")
	}
	return nil
}
