package website

import (
	"testing"
	"time"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/stretchr/testify/assert"
)

// Creation endpoints echo the stored row back, not just an ack. Anything
// the database filled in (id, timestamps) must be in the response.
func TestCreatedRowSerialization(t *testing.T) {
	t.Run("feedback", func(t *testing.T) {
		created := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
		payload := feedbackJson(&models.Feedback{
			ID:         42,
			ReviewID:   7,
			AuthorID:   20,
			Type:       models.FeedbackTypeSuggestion,
			Content:    "Tighten the lede.",
			IsInternal: false,
			CreatedAt:  created,
		})

		assert.Equal(t, 42, payload["id"])
		assert.Equal(t, 7, payload["review_id"])
		assert.Equal(t, 20, payload["author_id"])
		assert.Equal(t, "suggestion", payload["type"])
		assert.Equal(t, "Tighten the lede.", payload["content"])
		assert.Equal(t, false, payload["is_internal"])
		assert.Equal(t, "2026-08-28T09:30:00Z", payload["created_at"])
	})

	t.Run("publishing rule", func(t *testing.T) {
		maxWords := 2000
		payload := publishingRuleJson(&models.PublishingRule{
			ID:                    3,
			Category:              models.CategoryFeature,
			MinWordCount:          800,
			MaxWordCount:          &maxWords,
			RequiredTags:          2,
			RequiresFeaturedImage: true,
			RequiresExcerpt:       true,
			RequiresReview:        true,
		})

		assert.Equal(t, 3, payload["id"])
		assert.Equal(t, models.CategoryFeature, payload["category"])
		assert.Equal(t, 800, payload["min_word_count"])
		assert.Equal(t, &maxWords, payload["max_word_count"])
		assert.Equal(t, 2, payload["required_tags"])
		assert.Equal(t, true, payload["requires_featured_image"])
		assert.Equal(t, true, payload["requires_excerpt"])
		assert.Equal(t, false, payload["requires_meta_description"])
		assert.Equal(t, true, payload["requires_review"])
		assert.Equal(t, false, payload["auto_publish_trusted"])
	})
}
