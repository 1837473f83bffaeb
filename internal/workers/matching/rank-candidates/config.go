package rankcandidates

import (
	"time"

	"mentor-matching/internal/common/config"
	"mentor-matching/internal/matching"
)

type Config struct {
	MaxItems             int
	Timeout              time.Duration
	OlderMentorPreferred bool
}

func LoadConfig() *Config {
	return &Config{
		MaxItems:             50,
		Timeout:              30 * time.Second,
		OlderMentorPreferred: matching.DefaultOlderMentorPreferred,
	}
}

// FromAppConfig reads the worker timeout and the shared matching settings.
func FromAppConfig(cfg *config.Config) *Config {
	return &Config{
		MaxItems:             cfg.Matching.MaxItems,
		Timeout:              config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		OlderMentorPreferred: cfg.Matching.DefaultOlderMentorPreferred(),
	}
}
