package deskdata

import (
	"context"

	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
)

/*
Returns the publishing rule for a category. Categories that were never
explicitly configured get the default rule; it is not persisted until an
admin actually edits it.
*/
func FetchPublishingRule(ctx context.Context, dbConn db.ConnOrTx, category models.Category) (*models.PublishingRule, error) {
	rule, err := db.QueryOne[models.PublishingRule](ctx, dbConn,
		`
		---- Fetch publishing rule
		SELECT $columns
		FROM publishing_rule
		WHERE category = $1
		`,
		category,
	)
	if err == db.NotFound {
		defaultRule := models.DefaultPublishingRule(category)
		return &defaultRule, nil
	}
	return rule, err
}

type PublishingRuleInput struct {
	MinWordCount int
	MaxWordCount *int
	RequiredTags int

	RequiresFeaturedImage   bool
	RequiresExcerpt         bool
	RequiresMetaDescription bool

	RequiresReview     bool
	AutoPublishTrusted bool
}

// Creates or replaces the category's rule. One rule per category.
func UpsertPublishingRule(ctx context.Context, dbConn db.ConnOrTx, category models.Category, input PublishingRuleInput) (*models.PublishingRule, error) {
	if !category.Valid() {
		return nil, oops.New(nil, "invalid category '%s'", category)
	}

	rule, err := db.QueryOne[models.PublishingRule](ctx, dbConn,
		`
		---- Upsert publishing rule
		INSERT INTO publishing_rule (category, min_word_count, max_word_count, required_tags, requires_featured_image, requires_excerpt, requires_meta_description, requires_review, auto_publish_trusted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (category) DO UPDATE
		SET
			min_word_count = EXCLUDED.min_word_count,
			max_word_count = EXCLUDED.max_word_count,
			required_tags = EXCLUDED.required_tags,
			requires_featured_image = EXCLUDED.requires_featured_image,
			requires_excerpt = EXCLUDED.requires_excerpt,
			requires_meta_description = EXCLUDED.requires_meta_description,
			requires_review = EXCLUDED.requires_review,
			auto_publish_trusted = EXCLUDED.auto_publish_trusted
		RETURNING $columns
		`,
		category,
		input.MinWordCount,
		input.MaxWordCount,
		input.RequiredTags,
		input.RequiresFeaturedImage,
		input.RequiresExcerpt,
		input.RequiresMetaDescription,
		input.RequiresReview,
		input.AutoPublishTrusted,
	)
	if err != nil {
		return nil, oops.New(err, "failed to upsert publishing rule")
	}
	return rule, nil
}
