package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pairloop/pairing-server-go/internal/repository"
)

// RetentionJob periodically prunes declined and cancelled pairing requests
// that nobody can act on anymore. Pending and accepted requests are never
// touched, and sessions are kept indefinitely because they carry the
// participants' notes.
type RetentionJob struct {
	requestRepo repository.RequestRepository
	interval    time.Duration
	retention   time.Duration
	done        chan struct{}
}

func NewRetentionJob(requestRepo repository.RequestRepository, interval, retention time.Duration) *RetentionJob {
	return &RetentionJob{
		requestRepo: requestRepo,
		interval:    interval,
		retention:   retention,
		done:        make(chan struct{}),
	}
}

func (j *RetentionJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Dur("retention", j.retention).Msg("retention job started")
}

func (j *RetentionJob) Stop() {
	close(j.done)
	log.Info().Msg("retention job stopped")
}

func (j *RetentionJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *RetentionJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)
	count, err := j.requestRepo.DeleteResolvedBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to prune resolved requests")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("pruned resolved requests")
	}
}
