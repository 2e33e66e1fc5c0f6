/*
Package pubrules evaluates a category's publishing rule against an article
snapshot. It is the single source of truth for whether an article meets its
content-quality gates, for both checklist displays and the approve/publish
guards.
*/
package pubrules

import (
	"fmt"

	"github.com/newsdeskhq/newsdesk/src/models"
)

type Check string

const (
	CheckMinWordCount    Check = "min_word_count"
	CheckMaxWordCount    Check = "max_word_count"
	CheckFeaturedImage   Check = "featured_image"
	CheckExcerpt         Check = "excerpt"
	CheckMetaDescription Check = "meta_description"
	CheckRequiredTags    Check = "required_tags"
)

type CheckResult struct {
	Check  Check  `json:"check"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

/*
Runs every check, in a fixed order, and returns all of the results rather
than stopping at the first failure. Callers can therefore show every unmet
requirement at once. The max word count check only appears when the rule sets
a maximum; presence checks that the rule does not require pass trivially so
the checklist keeps a stable shape.
*/
func Validate(article *models.Article, rule *models.PublishingRule) []CheckResult {
	var results []CheckResult

	words := WordCount(article.Body)

	results = append(results, CheckResult{
		Check:  CheckMinWordCount,
		Passed: words >= rule.MinWordCount,
		Detail: fmt.Sprintf("%d of %d words", words, rule.MinWordCount),
	})

	if rule.MaxWordCount != nil {
		results = append(results, CheckResult{
			Check:  CheckMaxWordCount,
			Passed: words <= *rule.MaxWordCount,
			Detail: fmt.Sprintf("%d words, maximum %d", words, *rule.MaxWordCount),
		})
	}

	results = append(results, presenceCheck(
		CheckFeaturedImage,
		rule.RequiresFeaturedImage,
		article.FeaturedImageID != nil,
		"featured image",
	))
	results = append(results, presenceCheck(
		CheckExcerpt,
		rule.RequiresExcerpt,
		article.Excerpt != "",
		"excerpt",
	))
	results = append(results, presenceCheck(
		CheckMetaDescription,
		rule.RequiresMetaDescription,
		article.MetaDescription != "",
		"meta description",
	))

	results = append(results, CheckResult{
		Check:  CheckRequiredTags,
		Passed: len(article.Tags) >= rule.RequiredTags,
		Detail: fmt.Sprintf("%d of %d tags", len(article.Tags), rule.RequiredTags),
	})

	return results
}

func presenceCheck(check Check, required bool, present bool, what string) CheckResult {
	if !required {
		return CheckResult{Check: check, Passed: true, Detail: what + " not required"}
	}
	return CheckResult{Check: check, Passed: present, Detail: what + " required"}
}

func AllPassed(results []CheckResult) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
