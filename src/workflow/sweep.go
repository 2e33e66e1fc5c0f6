package workflow

import (
	"context"
	"time"

	"github.com/newsdeskhq/newsdesk/src/config"
	"github.com/newsdeskhq/newsdesk/src/db"
	"github.com/newsdeskhq/newsdesk/src/jobs"
	"github.com/newsdeskhq/newsdesk/src/logging"
	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/newsdeskhq/newsdesk/src/oops"
	"github.com/newsdeskhq/newsdesk/src/utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jpillora/backoff"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

/*
Runs the scheduled-publish sweep on the cron spec from config. Each tick
publishes every approved article whose scheduled time has arrived, crediting
the account that scheduled it. The sweep is the only writer of scheduled
publishes, so a missed tick just means the next one catches up.
*/
func RunScheduledPublisher(dbConn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("scheduled publisher")
	log := &job.Logger

	go func() {
		defer job.Finish()
		defer logging.LogPanics(log)

		c := cron.New()
		_, err := c.AddFunc(config.Config.Editorial.PublishSweepSpec, func() {
			sweepWithRetry(job.Ctx, dbConn, log)
		})
		if err != nil {
			log.Error().Err(err).Msg("bad publish sweep cron spec; scheduled publishing disabled")
			return
		}

		c.Start()
		<-job.Canceled()
		<-c.Stop().Done()
	}()
	return job
}

func sweepWithRetry(ctx context.Context, dbConn *pgxpool.Pool, log *zerolog.Logger) {
	boff := backoff.Backoff{
		Min: 1 * time.Second,
		Max: 30 * time.Second,
	}
	for {
		err := PublishDue(ctx, dbConn)
		if err == nil {
			return
		}
		log.Error().Err(err).Msg("publish sweep failed")
		if boff.Attempt() >= 3 || utils.SleepContext(ctx, boff.Duration()) != nil {
			return
		}
	}
}

/*
Publishes every approved article whose scheduled time is in the past. Each
article runs through PerformAction as the account that scheduled it, so
scheduled publishes obey exactly the same guards as manual ones; each gets
its own transaction so one failure cannot hold back the rest of the batch.
*/
func PublishDue(ctx context.Context, dbConn db.ConnOrTx) error {
	due, err := db.Query[models.Article](ctx, dbConn,
		`
		---- Fetch articles due for publishing
		SELECT $columns
		FROM article
		WHERE
			status = $1
			AND scheduled_at IS NOT NULL
			AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
		`,
		models.ArticleStatusApproved, time.Now(),
	)
	if err != nil {
		return oops.New(err, "failed to fetch due articles")
	}

	for _, article := range due {
		actorID := article.AuthorID
		if article.ScheduledByID != nil {
			actorID = *article.ScheduledByID
		}

		_, err := PerformAction(ctx, dbConn, actorID, article.ID, Request{Action: ActionPublish})
		if kind := KindOf(err); kind != 0 {
			// A judged refusal, not a transient failure: the article moved,
			// or the scheduler lost publish rights. Skip it; retrying would
			// refuse again.
			logging.ExtractLogger(ctx).Warn().
				Int("article", article.ID).
				Stringer("kind", kind).
				Msg("scheduled publish refused")
			continue
		} else if err != nil {
			return err
		}
	}
	return nil
}
