package models

import (
	"time"

	"github.com/google/uuid"
)

type ArticleStatus int

const (
	ArticleStatusDraft            ArticleStatus = 1
	ArticleStatusPendingReview    ArticleStatus = 2
	ArticleStatusInReview         ArticleStatus = 3
	ArticleStatusChangesRequested ArticleStatus = 4
	ArticleStatusApproved         ArticleStatus = 5
	ArticleStatusPublished        ArticleStatus = 6
	ArticleStatusRejected         ArticleStatus = 7
	ArticleStatusOnHold           ArticleStatus = 8
)

var ArticleStatusNames = map[ArticleStatus]string{
	ArticleStatusDraft:            "draft",
	ArticleStatusPendingReview:    "pending_review",
	ArticleStatusInReview:         "in_review",
	ArticleStatusChangesRequested: "changes_requested",
	ArticleStatusApproved:         "approved",
	ArticleStatusPublished:        "published",
	ArticleStatusRejected:         "rejected",
	ArticleStatusOnHold:           "on_hold",
}

func (s ArticleStatus) String() string {
	if name, ok := ArticleStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseArticleStatus(name string) (ArticleStatus, bool) {
	for status, statusName := range ArticleStatusNames {
		if statusName == name {
			return status, true
		}
	}
	return 0, false
}

// Published and rejected articles are done with this workflow. (Unpublishing
// is a separate operation, not a workflow transition.)
func (s ArticleStatus) IsTerminal() bool {
	return s == ArticleStatusPublished || s == ArticleStatusRejected
}

type Category string

const (
	CategoryNews    Category = "news"
	CategoryOpinion Category = "opinion"
	CategoryFeature Category = "feature"
	CategoryCulture Category = "culture"
	CategoryTech    Category = "tech"
	CategorySports  Category = "sports"
)

var AllCategories = []Category{
	CategoryNews,
	CategoryOpinion,
	CategoryFeature,
	CategoryCulture,
	CategoryTech,
	CategorySports,
}

func (c Category) Valid() bool {
	for _, cat := range AllCategories {
		if c == cat {
			return true
		}
	}
	return false
}

type Article struct {
	ID int `db:"id"`

	AuthorID int      `db:"author_id"`
	Category Category `db:"category"`

	Title string `db:"title"`
	Body  string `db:"body"` // opaque to the workflow except for word counting

	Status ArticleStatus `db:"status"`
	// Set while on hold so that lifting the hold can restore the old status.
	PriorStatus *ArticleStatus `db:"prior_status"`

	Tags            []string   `db:"tags"`
	FeaturedImageID *uuid.UUID `db:"featured_image_id"`
	Excerpt         string     `db:"excerpt"`
	MetaDescription string     `db:"meta_description"`

	PublishedAt *time.Time `db:"published_at"`
	ScheduledAt *time.Time `db:"scheduled_at"`
	// Who authorized the deferred publish; the sweep acts on their behalf.
	ScheduledByID *int `db:"scheduled_by_id"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
