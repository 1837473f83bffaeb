package calculatematchscore

import (
	"time"

	"mentor-matching/internal/common/config"
	"mentor-matching/internal/matching"
)

type Config struct {
	Timeout              time.Duration
	OlderMentorPreferred bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:              10 * time.Second,
		OlderMentorPreferred: matching.DefaultOlderMentorPreferred,
	}
}

func FromAppConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:              config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
		OlderMentorPreferred: cfg.Matching.DefaultOlderMentorPreferred(),
	}
}
