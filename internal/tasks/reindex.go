package tasks

import (
	"context"
	"time"

	"github.com/jaganov/theblogs-app/internal/search"
	"github.com/jaganov/theblogs-app/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// reindexTimeout bounds a single rebuild run.
const reindexTimeout = 2 * time.Minute

// Reindexer periodically rebuilds the search index from the post store. The
// write path feeds the index synchronously; this job repairs any update that
// was lost between a commit and the index call, so index staleness is bounded
// by the schedule interval.
type Reindexer struct {
	posts  *service.PostService
	index  search.Index
	cron   *cron.Cron
	logger *zap.Logger
}

// NewReindexer schedules a rebuild per the cron spec (e.g. "@every 10m").
// Call Start to begin and Stop to drain.
func NewReindexer(posts *service.PostService, index search.Index, spec string, logger *zap.Logger) (*Reindexer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Reindexer{
		posts:  posts,
		index:  index,
		cron:   cron.New(),
		logger: logger,
	}

	if _, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
		defer cancel()

		started := time.Now()
		if err := r.Run(ctx); err != nil {
			r.logger.Error("search reindex failed", zap.Error(err))
			return
		}
		r.logger.Info("search reindex finished", zap.Duration("duration", time.Since(started)))
	}); err != nil {
		return nil, err
	}

	return r, nil
}

// Run rebuilds the index once from the current set of published posts.
func (r *Reindexer) Run(ctx context.Context) error {
	docs, err := r.posts.PublishedDocuments(ctx)
	if err != nil {
		return err
	}
	return r.index.Rebuild(docs)
}

// Start launches the cron schedule.
func (r *Reindexer) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Reindexer) Stop() {
	<-r.cron.Stop().Done()
}
