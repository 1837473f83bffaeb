package profilestore

import (
	"context"
	"errors"
	"sync"
	"time"

	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/metrics"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/models"
)

type FanOutConfig struct {
	Concurrency      int
	CandidateTimeout time.Duration
	CandidateRetries int
	RetryBackoff     time.Duration
}

func DefaultFanOutConfig() FanOutConfig {
	return FanOutConfig{
		Concurrency:      8,
		CandidateTimeout: 2 * time.Second,
		RetryBackoff:     50 * time.Millisecond,
	}
}

// FanOutRetriever enumerates candidate ids in one query and reads each
// profile individually with bounded concurrency. A candidate that cannot be
// read is logged and skipped; only an id-listing failure or the caller's own
// deadline fails the call.
type FanOutRetriever struct {
	reader ProfileReader
	lister IDLister
	cfg    FanOutConfig
	logger logger.Logger
}

func NewFanOutRetriever(reader ProfileReader, lister IDLister, cfg FanOutConfig, log logger.Logger) *FanOutRetriever {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &FanOutRetriever{
		reader: reader,
		lister: lister,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "fanout-retriever"}),
	}
}

func (f *FanOutRetriever) GetSubjectProfile(ctx context.Context, id string) (*models.Profile, error) {
	return f.reader.GetProfile(ctx, id)
}

func (f *FanOutRetriever) ListOppositeRoleCandidates(ctx context.Context, subjectRole models.Role) ([]*models.Profile, error) {
	ids, err := f.lister.ListIDs(ctx, subjectRole.Opposite())
	if err != nil {
		return nil, err
	}

	// results is indexed by listing position so the pool keeps listing order
	results := make([]*models.Profile, len(ids))
	sem := make(chan struct{}, f.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			p, err := f.fetch(ctx, id)
			if err != nil {
				f.skip(id, err)
				return
			}
			results[i] = p
		}(i, id)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := make([]*models.Profile, 0, len(results))
	for _, p := range results {
		if p != nil {
			pool = append(pool, p)
		}
	}
	return pool, nil
}

func (f *FanOutRetriever) fetch(ctx context.Context, id string) (*models.Profile, error) {
	backoff := f.cfg.RetryBackoff
	var lastErr error
	for attempt := 0; attempt <= f.cfg.CandidateRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
				backoff *= 2
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		p, err := f.readOnce(ctx, id)
		if err == nil {
			return p, nil
		}
		// the profile vanished between listing and reading; retrying will not help
		if errors.Is(err, matching.ErrProfileNotFound) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (f *FanOutRetriever) readOnce(ctx context.Context, id string) (*models.Profile, error) {
	if f.cfg.CandidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.CandidateTimeout)
		defer cancel()
	}
	return f.reader.GetProfile(ctx, id)
}

func (f *FanOutRetriever) skip(id string, err error) {
	reason := "read_failed"
	switch {
	case errors.Is(err, matching.ErrProfileNotFound):
		reason = "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		reason = "timeout"
	}
	metrics.CandidatesSkipped.WithLabelValues(reason).Inc()
	f.logger.Warn("skipping unreadable candidate", map[string]interface{}{
		"candidateId": id,
		"reason":      reason,
		"error":       err.Error(),
	})
}
