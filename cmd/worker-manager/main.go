// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sponsormatch-workers/internal/common/aws"
	"sponsormatch-workers/internal/common/camunda"
	"sponsormatch-workers/internal/common/config"
	"sponsormatch-workers/internal/common/database"
	"sponsormatch-workers/internal/common/logger"
	"sponsormatch-workers/internal/common/observability"
	"sponsormatch-workers/internal/connections"
	"sponsormatch-workers/internal/matching/generator"
	"sponsormatch-workers/internal/matching/lifecycle"
	"sponsormatch-workers/internal/store"
	"sponsormatch-workers/pkg/registry"

	dc "sponsormatch-workers/internal/workers/connections/deduplicate-connections"
	ei "sponsormatch-workers/internal/workers/matching/express-interest"
	gm "sponsormatch-workers/internal/workers/matching/generate-matches"
	lm "sponsormatch-workers/internal/workers/matching/list-matches"
	sm "sponsormatch-workers/internal/workers/matching/search-matches"
	umo "sponsormatch-workers/internal/workers/matching/update-match-overlay"
	ipc "sponsormatch-workers/internal/workers/profiles/invalidate-profile-cache"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	shutdownTracing, err := observability.InitTracing(cfg.Observability)
	if err != nil {
		zapLog.Fatal("tracing init failed", zap.Error(err))
	}
	obs := observability.New(cfg.Observability.ServiceName, zapLog)

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Matching.MigrationsEnabled() {
		if err := pg.Migrate(zapLog); err != nil {
			zapLog.Fatal("database migration failed", zap.Error(err))
		}
	}

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	indexCreated, err := esClient.EnsureIndex(ctx, cfg.Matching.SearchIndex, store.MatchIndexMapping)
	if err != nil {
		zapLog.Fatal("match index setup failed", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	redis := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	checkRegistry(cfg.App.RegistryPath, zapLog)

	// --- Domain services ---
	entityStore := store.NewCachedEntityStore(
		store.NewEntityStore(pg),
		redis.Client,
		config.GetDuration(cfg.Matching.EntityCacheTTL),
		log,
	)
	matchStore := store.NewMatchStore(pg)
	matchIndex := store.NewMatchIndex(esClient.Client, cfg.Matching.SearchIndex, cfg.Matching.SearchMaxSize)
	overlays := lifecycle.NewOverlayRepository(store.NewRedisKV(redis.Client))

	if indexCreated {
		backfillIndex(ctx, matchStore, matchIndex, zapLog)
	}

	var (
		generated generator.Publisher
		accepted  lifecycle.AcceptancePublisher
	)
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
		publisher := aws.NewEventPublisher(snsClient, cfg.Matching.EventsTopicARN)
		generated, accepted = publisher, publisher
		zapLog.Info("Match events will be published", zap.String("topicArn", cfg.Matching.EventsTopicARN))
	}

	generatorSvc := generator.NewService(entityStore, matchStore, matchIndex, generated, log)
	manager := lifecycle.NewManager(matchStore, overlays, matchStore, matchIndex, accepted, log)
	connectionSvc := connections.NewService(store.NewConnectionStore(pg), log)

	// --- Register workers ---
	zc := zeebe.GetClient()
	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		w := camunda.NewWorker(zc, taskType, config.GetWorkerConfig(cfg, taskType), handler, obs, zapLog)
		if w != nil {
			workers = append(workers, w)
		}
	}

	register(gm.TaskType, gm.NewHandler(
		&gm.Config{Timeout: handlerTimeout(cfg, gm.TaskType, gm.LoadConfig().Timeout)},
		generatorSvc, log,
	))
	register(lm.TaskType, lm.NewHandler(
		&lm.Config{Timeout: handlerTimeout(cfg, lm.TaskType, lm.LoadConfig().Timeout)},
		manager, log,
	))
	register(umo.TaskType, umo.NewHandler(
		&umo.Config{Timeout: handlerTimeout(cfg, umo.TaskType, umo.LoadConfig().Timeout)},
		manager, log,
	))
	register(ei.TaskType, ei.NewHandler(
		&ei.Config{Timeout: handlerTimeout(cfg, ei.TaskType, ei.LoadConfig().Timeout)},
		manager, log,
	))
	register(sm.TaskType, sm.NewHandler(
		&sm.Config{
			Index:   cfg.Matching.SearchIndex,
			Timeout: handlerTimeout(cfg, sm.TaskType, sm.LoadConfig(cfg.Matching.SearchIndex).Timeout),
		},
		matchIndex, log,
	))
	register(dc.TaskType, dc.NewHandler(
		&dc.Config{Timeout: handlerTimeout(cfg, dc.TaskType, dc.LoadConfig().Timeout)},
		connectionSvc, log,
	))
	register(ipc.TaskType, ipc.NewHandler(
		&ipc.Config{Timeout: handlerTimeout(cfg, ipc.TaskType, ipc.LoadConfig().Timeout)},
		entityStore, log,
	))
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:    cfg.Observability.MetricsAddress,
		Handler: newHealthMux(zeebe, pg, esClient, redis),
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics provider", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		zapLog.Error("Error flushing traces", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// handlerTimeout uses the worker's configured job timeout, falling back to the handler default.
func handlerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if d := config.GetDuration(config.GetWorkerConfig(cfg, taskType).Timeout); d > 0 {
		return d
	}
	return fallback
}

// checkRegistry warns when a registered worker has no activity entry. The
// registry is documentation for process designers, so problems never block startup.
func checkRegistry(path string, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry is invalid", zap.Error(err))
	}
	missing := reg.Missing([]string{gm.TaskType, lm.TaskType, umo.TaskType, ei.TaskType, sm.TaskType, dc.TaskType})
	if len(missing) > 0 {
		log.Warn("workers missing from activity registry", zap.Strings("taskTypes", missing))
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

type zeebePinger struct{ c *camunda.Client }

func (z zeebePinger) Ping(ctx context.Context) error { return z.c.HealthCheck(ctx) }

func newHealthMux(zeebe *camunda.Client, pg *database.PostgresClient, es *database.ElasticsearchClient, redis *database.RedisClient) *http.ServeMux {
	deps := map[string]pinger{
		"zeebe":         zeebePinger{zeebe},
		"postgres":      pg,
		"elasticsearch": es,
		"redis":         redis,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status, code := "ready", http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				checks[name] = err.Error()
				status, code = "not ready", http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"checks": checks,
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// backfillIndex copies every stored match into a freshly created search index.
// Failures leave the index partial; status updates and new generations fill it in.
func backfillIndex(ctx context.Context, matches *store.MatchStore, index *store.MatchIndex, zapLog *zap.Logger) {
	views, err := matches.GetAllMatches(ctx)
	if err != nil {
		zapLog.Warn("match index backfill skipped", zap.Error(err))
		return
	}
	if len(views) == 0 {
		return
	}
	if err := index.IndexMatches(ctx, views); err != nil {
		zapLog.Warn("match index backfill failed", zap.Int("matches", len(views)), zap.Error(err))
		return
	}
	zapLog.Info("match index backfilled", zap.Int("matches", len(views)))
}
