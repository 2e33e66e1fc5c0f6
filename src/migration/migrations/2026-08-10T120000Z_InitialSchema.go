package migrations

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/migration/types"
	"github.com/jackc/pgx/v5"
)

func init() {
	registerMigration(InitialSchema{})
}

type InitialSchema struct{}

func (m InitialSchema) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC))
}

func (m InitialSchema) Name() string {
	return "InitialSchema"
}

func (m InitialSchema) Description() string {
	return "Creates the newsdesk schema"
}

func (m InitialSchema) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE account (
			id SERIAL PRIMARY KEY,
			username VARCHAR(150) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL DEFAULT '',
			email VARCHAR(254) NOT NULL DEFAULT '',
			role INT NOT NULL DEFAULT 1,
			deleted BOOLEAN NOT NULL DEFAULT FALSE,
			date_joined TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE TABLE article (
			id SERIAL PRIMARY KEY,
			author_id INT NOT NULL REFERENCES account (id),
			category VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			status INT NOT NULL DEFAULT 1,
			prior_status INT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			featured_image_id UUID,
			excerpt TEXT NOT NULL DEFAULT '',
			meta_description TEXT NOT NULL DEFAULT '',
			published_at TIMESTAMP WITH TIME ZONE,
			scheduled_at TIMESTAMP WITH TIME ZONE,
			scheduled_by_id INT REFERENCES account (id),
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX article_status ON article (status);
		CREATE INDEX article_category_status ON article (category, status);
		CREATE INDEX article_scheduled ON article (scheduled_at)
			WHERE scheduled_at IS NOT NULL;

		CREATE TABLE editorial_review (
			id SERIAL PRIMARY KEY,
			article_id INT NOT NULL UNIQUE REFERENCES article (id) ON DELETE CASCADE,
			priority INT NOT NULL DEFAULT 2,
			reviewer_id INT REFERENCES account (id),
			submitted_at TIMESTAMP WITH TIME ZONE NOT NULL,
			reviewed_at TIMESTAMP WITH TIME ZONE,
			deadline TIMESTAMP WITH TIME ZONE
		);
		CREATE INDEX editorial_review_queue ON editorial_review (priority DESC, submitted_at ASC);

		CREATE TABLE feedback (
			id SERIAL PRIMARY KEY,
			review_id INT NOT NULL REFERENCES editorial_review (id) ON DELETE CASCADE,
			author_id INT NOT NULL REFERENCES account (id),
			type INT NOT NULL,
			content TEXT NOT NULL,
			is_internal BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX feedback_review ON feedback (review_id);

		CREATE TABLE activity_log (
			id SERIAL PRIMARY KEY,
			article_id INT NOT NULL REFERENCES article (id) ON DELETE CASCADE,
			actor_id INT NOT NULL REFERENCES account (id),
			action VARCHAR(64) NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		);
		CREATE INDEX activity_log_article ON activity_log (article_id, created_at);

		CREATE TABLE publishing_rule (
			id SERIAL PRIMARY KEY,
			category VARCHAR(64) NOT NULL UNIQUE,
			min_word_count INT NOT NULL DEFAULT 0,
			max_word_count INT,
			required_tags INT NOT NULL DEFAULT 0,
			requires_featured_image BOOLEAN NOT NULL DEFAULT FALSE,
			requires_excerpt BOOLEAN NOT NULL DEFAULT FALSE,
			requires_meta_description BOOLEAN NOT NULL DEFAULT FALSE,
			requires_review BOOLEAN NOT NULL DEFAULT TRUE,
			auto_publish_trusted BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE TABLE editorial_assignment (
			id SERIAL PRIMARY KEY,
			editor_id INT NOT NULL REFERENCES account (id),
			category VARCHAR(64) NOT NULL,
			can_approve BOOLEAN NOT NULL DEFAULT FALSE,
			can_publish BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			UNIQUE (editor_id, category)
		);
	`)
	return err
}

func (m InitialSchema) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE editorial_assignment;
		DROP TABLE publishing_rule;
		DROP TABLE activity_log;
		DROP TABLE feedback;
		DROP TABLE editorial_review;
		DROP TABLE article;
		DROP TABLE account;
	`)
	return err
}
