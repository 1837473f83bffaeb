package profilestore

import (
	"github.com/redis/go-redis/v9"

	"mentor-matching/internal/common/config"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/matching"
)

// Source is a backend able to serve both fetch modes.
type Source interface {
	ProfileReader
	RoleLister
	IDLister
}

var (
	_ Source = (*PostgresStore)(nil)
	_ Source = (*SearchStore)(nil)
	_ Source = (*MemoryStore)(nil)
)

// NewRetriever assembles the retriever described by cfg. Single-profile reads
// go through a Redis cache when rdb is non-nil.
func NewRetriever(src Source, rdb *redis.Client, cfg config.MatchingConfig, log logger.Logger) matching.CandidateRetriever {
	var reader ProfileReader = src
	if rdb != nil {
		reader = NewCachedReader(src, rdb, config.GetDuration(cfg.CacheTTL), log)
	}

	if cfg.FetchMode == config.FetchFanout {
		fc := DefaultFanOutConfig()
		fc.Concurrency = cfg.Concurrency
		fc.CandidateTimeout = config.GetDuration(cfg.CandidateTimeout)
		fc.CandidateRetries = cfg.CandidateRetries
		return NewFanOutRetriever(reader, src, fc, log)
	}
	return NewBatchRetriever(reader, src)
}
