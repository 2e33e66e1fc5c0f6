package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/newsdeskhq/newsdesk/src/config"
	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/deskdata"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/utils"
	"github.com/newsdeskhq/newsdesk/src/workflow"
	lorem "github.com/HandmadeNetwork/golorem"
)

// Creates only what's necessary to get the desk running: the schema and
// publishing rules for every category.
func BareMinimumSeed() {
	Migrate(LatestVersion())

	ctx := context.Background()
	conn := db.NewConnWithConfig(config.PostgresConfig{
		LogLevel: "warn",
	})
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		panic(err)
	}
	defer tx.Rollback(ctx)

	fmt.Println("Creating publishing rules...")
	for _, category := range models.AllCategories {
		input := deskdata.PublishingRuleInput{
			MinWordCount:   100,
			RequiredTags:   1,
			RequiresReview: true,
		}
		if category == models.CategoryOpinion {
			// Opinion runs on trust: senior writers publish directly.
			input.RequiresReview = false
			input.AutoPublishTrusted = true
		}
		if category == models.CategoryFeature {
			input.MinWordCount = 800
			input.RequiresFeaturedImage = true
			input.RequiresExcerpt = true
		}
		_, err := deskdata.UpsertPublishingRule(ctx, tx, category, input)
		if err != nil {
			panic(err)
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		panic(err)
	}
}

// Seeds the database with a small newsroom for local dev: accounts at every
// role and articles at every stage of the editorial workflow.
func SampleSeed() {
	BareMinimumSeed()

	ctx := context.Background()
	conn := db.NewConnWithConfig(config.PostgresConfig{
		LogLevel: "warn",
	})
	defer conn.Close(ctx)

	fmt.Println("Creating accounts...")
	admin := seedAccount(ctx, conn, models.Account{Username: "admin", Name: "Admin", Role: models.RoleAdmin})
	edna := seedAccount(ctx, conn, models.Account{Username: "edna", Name: "Edna", Role: models.RoleEditor})
	vic := seedAccount(ctx, conn, models.Account{Username: "vic", Name: "Vic", Role: models.RoleSeniorWriter})
	alice := seedAccount(ctx, conn, models.Account{Username: "alice", Name: "Alice", Role: models.RoleAuthor})
	seedAccount(ctx, conn, models.Account{Username: "bob", Name: "Bob", Role: models.RoleContributor})
	seedAccount(ctx, conn, models.Account{Username: "root", Name: "Root", Role: models.RoleSuperAdmin})

	act := func(actor *models.Account, articleID int, req workflow.Request) {
		_, err := workflow.PerformAction(ctx, conn, actor.ID, articleID, req)
		if err != nil {
			panic(err)
		}
	}

	fmt.Println("Creating articles...")

	// A draft nobody has touched yet.
	seedArticle(ctx, conn, alice, models.CategoryNews, "City council approves new transit line")

	// One waiting in the review queue.
	pending := seedArticle(ctx, conn, alice, models.CategoryNews, "Local bakery wins national award")
	act(alice, pending.ID, workflow.Request{Action: workflow.ActionSubmit})

	// One mid-review with changes requested.
	bounced := seedArticle(ctx, conn, alice, models.CategoryNews, "Drought conditions worsen upstate")
	act(alice, bounced.ID, workflow.Request{Action: workflow.ActionSubmit})
	act(edna, bounced.ID, workflow.Request{Action: workflow.ActionStartReview})
	act(edna, bounced.ID, workflow.Request{
		Action:   workflow.ActionRequestChanges,
		Feedback: "The third paragraph needs a source.",
	})

	// One all the way through to published.
	published := seedArticle(ctx, conn, alice, models.CategoryNews, "Election results certified after recount")
	act(alice, published.ID, workflow.Request{Action: workflow.ActionSubmit})
	act(edna, published.ID, workflow.Request{Action: workflow.ActionStartReview})
	act(admin, published.ID, workflow.Request{Action: workflow.ActionApprove, Feedback: "Clean copy, good sourcing."})
	act(admin, published.ID, workflow.Request{Action: workflow.ActionPublish})

	// A trusted opinion writer publishing straight through.
	column := seedArticle(ctx, conn, vic, models.CategoryOpinion, "Why the stadium deal deserves a second look")
	act(vic, column.ID, workflow.Request{Action: workflow.ActionSubmit})

	fmt.Println("Granting edna approval rights for news...")
	_, err := deskdata.SetAssignment(ctx, conn, edna.ID, models.CategoryNews, true, false)
	if err != nil {
		panic(err)
	}

	fmt.Println("Done!")
}

func seedAccount(ctx context.Context, conn db.ConnOrTx, input models.Account) *models.Account {
	account, err := db.QueryOne[models.Account](ctx, conn,
		`
		INSERT INTO account (username, name, email, role, date_joined)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING $columns
		`,
		input.Username,
		utils.OrDefault(input.Name, input.Username),
		fmt.Sprintf("%s@example.com", input.Username),
		input.Role,
	)
	if err != nil {
		panic(err)
	}
	return account
}

func seedArticle(ctx context.Context, conn db.ConnOrTx, author *models.Account, category models.Category, title string) *models.Article {
	article, err := deskdata.CreateArticle(ctx, conn, deskdata.CreateArticleInput{
		AuthorID: author.ID,
		Category: category,
		Title:    title,
		Body:     loremBody(6),
		Tags:     []string{string(category), "local"},
		Excerpt:  lorem.Sentence(8, 16),
	})
	if err != nil {
		panic(err)
	}
	return article
}

func loremBody(paragraphs int) string {
	var b strings.Builder
	for i := 0; i < paragraphs; i++ {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(lorem.Paragraph(4, 8))
	}
	return b.String()
}
