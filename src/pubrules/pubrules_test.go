package pubrules

import (
	"strings"
	"testing"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/stretchr/testify/assert"
)

func TestWordCount(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		assert.Equal(t, 5, WordCount("the quick brown fox jumps"))
	})
	t.Run("markup does not count as words", func(t *testing.T) {
		assert.Equal(t, 5, WordCount("# the quick\n\n**brown** _fox_ [jumps](https://example.com)"))
	})
	t.Run("code blocks count their contents", func(t *testing.T) {
		assert.Equal(t, 4, WordCount("intro words\n\n```\nfoo bar\n```\n"))
	})
	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, 0, WordCount(""))
		assert.Equal(t, 0, WordCount("   \n\n  "))
	})
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidate(t *testing.T) {
	t.Run("reports every failing check at once", func(t *testing.T) {
		rule := &models.PublishingRule{
			Category:              models.CategoryNews,
			MinWordCount:          300,
			RequiredTags:          2,
			RequiresFeaturedImage: true,
		}
		article := &models.Article{
			Body: words(180),
			Tags: []string{"politics"},
		}

		results := Validate(article, rule)
		assert.False(t, AllPassed(results))

		var failed []Check
		for _, result := range results {
			if !result.Passed {
				failed = append(failed, result.Check)
			}
		}
		assert.Equal(t, []Check{CheckMinWordCount, CheckFeaturedImage, CheckRequiredTags}, failed)
	})

	t.Run("all checks run even after a failure", func(t *testing.T) {
		rule := &models.PublishingRule{
			Category:        models.CategoryNews,
			MinWordCount:    100,
			RequiredTags:    1,
			RequiresExcerpt: true,
		}
		article := &models.Article{Body: ""}

		results := Validate(article, rule)
		// min, featured, excerpt, meta, tags - max is absent because unset
		assert.Len(t, results, 5)
	})

	t.Run("max word count only when set", func(t *testing.T) {
		max := 120
		rule := &models.PublishingRule{
			Category:     models.CategoryOpinion,
			MinWordCount: 50,
			MaxWordCount: &max,
		}
		article := &models.Article{Body: words(150)}

		results := Validate(article, rule)
		assert.Equal(t, CheckMaxWordCount, results[1].Check)
		assert.False(t, results[1].Passed)
	})

	t.Run("fixed check order", func(t *testing.T) {
		max := 5000
		rule := &models.PublishingRule{
			Category:                models.CategoryFeature,
			MinWordCount:            1,
			MaxWordCount:            &max,
			RequiredTags:            0,
			RequiresFeaturedImage:   true,
			RequiresExcerpt:         true,
			RequiresMetaDescription: true,
		}
		article := &models.Article{Body: words(10)}

		results := Validate(article, rule)
		var order []Check
		for _, result := range results {
			order = append(order, result.Check)
		}
		assert.Equal(t, []Check{
			CheckMinWordCount,
			CheckMaxWordCount,
			CheckFeaturedImage,
			CheckExcerpt,
			CheckMetaDescription,
			CheckRequiredTags,
		}, order)
	})

	t.Run("passing article", func(t *testing.T) {
		rule := &models.PublishingRule{
			Category:     models.CategoryTech,
			MinWordCount: 5,
			RequiredTags: 1,
		}
		article := &models.Article{
			Body: words(10),
			Tags: []string{"go"},
		}
		assert.True(t, AllPassed(Validate(article, rule)))
	})
}
