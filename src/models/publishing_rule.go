package models

// One rule per category. Rules that were never configured get these defaults
// (see deskdata.FetchPublishingRule).
type PublishingRule struct {
	ID       int      `db:"id"`
	Category Category `db:"category"`

	MinWordCount int  `db:"min_word_count"`
	MaxWordCount *int `db:"max_word_count"`
	RequiredTags int  `db:"required_tags"`

	RequiresFeaturedImage   bool `db:"requires_featured_image"`
	RequiresExcerpt         bool `db:"requires_excerpt"`
	RequiresMetaDescription bool `db:"requires_meta_description"`

	RequiresReview     bool `db:"requires_review"`
	AutoPublishTrusted bool `db:"auto_publish_trusted"`
}

func DefaultPublishingRule(category Category) PublishingRule {
	return PublishingRule{
		Category:       category,
		MinWordCount:   100,
		RequiredTags:   1,
		RequiresReview: true,
	}
}
