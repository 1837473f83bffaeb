package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mentor-matching/internal/common/camunda"
	"mentor-matching/internal/common/config"
	"mentor-matching/internal/common/database"
	"mentor-matching/internal/common/logger"
	"mentor-matching/internal/common/observability"
	"mentor-matching/internal/matching"
	"mentor-matching/internal/profilestore"

	cms "mentor-matching/internal/workers/matching/calculate-match-score"
	cme "mentor-matching/internal/workers/matching/check-match-eligibility"
	rc "mentor-matching/internal/workers/matching/rank-candidates"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"source":    cfg.Matching.CandidateSource,
		"fetchMode": cfg.Matching.FetchMode,
	})

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()

	checks := readinessChecks{"zeebe": zeebe.HealthCheck}

	// --- Profile source ---
	var source profilestore.Source
	switch cfg.Matching.CandidateSource {
	case config.SourceElasticsearch:
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			if esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
				return err
			}
			if err := esClient.Ping(ctx); err != nil {
				return err
			}
			return esClient.EnsureIndex(ctx, cfg.Matching.Index)
		}, 15, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		source = profilestore.NewSearchStore(esClient.Client, cfg.Matching.Index, log)
		checks["elasticsearch"] = esClient.Ping

	default:
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			if pg, err = database.NewPostgres(cfg.Database.Postgres); err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				return err
			}
			return pg.EnsureSchema(ctx)
		}, 15, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		source = profilestore.NewPostgresStore(pg.DB, log)
		checks["postgres"] = pg.Ping
	}

	// --- Redis (optional profile cache) ---
	var rdb *redis.Client
	if cfg.Database.Redis.Address != "" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			if redisClient, err = database.NewRedis(cfg.Database.Redis); err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, log, "Redis connection")
		if err != nil {
			// the cache is an optimisation; run without it
			log.Warn("redis unavailable, profile cache disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer redisClient.Close()
			rdb = redisClient.Client
			checks["redis"] = redisClient.Ping
		}
	}

	// --- Engine ---
	calculator, err := matching.NewCalculator(cfg.Matching.Weights)
	if err != nil {
		zapLog.Fatal("invalid matching weights", zap.Error(err))
	}
	retriever := profilestore.NewRetriever(source, rdb, cfg.Matching, log)
	ranker := matching.NewRanker(retriever, calculator, log)

	// --- Workers ---
	workers := registerWorkers(zeebe.GetClient(), cfg, ranker, retriever, calculator, obs, log)
	log.Info("workers registered", map[string]interface{}{"count": len(workers)})

	taskTypes := make([]string, 0, len(workers))
	for _, w := range workers {
		taskTypes = append(taskTypes, w.TaskType())
	}
	if missing, err := unregisteredTaskTypes(activityRegistryPath, taskTypes); err != nil {
		log.Warn("activity registry not checked", map[string]interface{}{"error": err.Error()})
	} else if len(missing) > 0 {
		log.Warn("task types missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.HealthPort),
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers...", nil)
	for _, w := range workers {
		w.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("worker manager stopped", nil)
}

func registerWorkers(
	client zbc.Client,
	cfg *config.Config,
	ranker *matching.Ranker,
	retriever matching.CandidateRetriever,
	calculator *matching.Calculator,
	obs *observability.Observability,
	log logger.Logger,
) []*camunda.CamundaWorker {
	var workers []*camunda.CamundaWorker
	start := func(taskType string, handler camunda.JobHandler) {
		if !config.IsWorkerEnabled(cfg, taskType) {
			log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
			return
		}
		wc := config.GetWorkerConfig(cfg, taskType)
		workers = append(workers, camunda.NewWorker(client, taskType, wc.MaxJobsActive, handler, log))
	}

	start(rc.TaskType, rc.NewHandler(rc.FromAppConfig(cfg), ranker, obs, log))
	start(cms.TaskType, cms.NewHandler(cms.FromAppConfig(cfg), retriever, calculator, obs, log))
	start(cme.TaskType, cme.NewHandler(cme.FromAppConfig(cfg), ranker, obs, log))
	return workers
}
