// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lusotown-workers/internal/common/camunda"
	"lusotown-workers/internal/common/config"
	"lusotown-workers/internal/common/database"
	"lusotown-workers/internal/common/httpclient"
	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/common/observability"
	"lusotown-workers/pkg/registry"

	// Directory Workers (2)
	psc "lusotown-workers/internal/workers/directory/parse-search-criteria"
	rr "lusotown-workers/internal/workers/directory/rank-results"

	// Matching Workers (1)
	cc "lusotown-workers/internal/workers/matching/calculate-compatibility"

	// Data Access Workers (2)
	qe "lusotown-workers/internal/workers/data-access/query-elasticsearch"
	qp "lusotown-workers/internal/workers/data-access/query-postgresql"

	// Geo Workers (1)
	ro "lusotown-workers/internal/workers/geo/resolve-origin"

	// Communication Workers (1)
	sn "lusotown-workers/internal/workers/communication/send-notification"

	// Infrastructure Workers (1)
	bsr "lusotown-workers/internal/workers/infrastructure/build-search-response"
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
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Validate activity registry ---
	if cfg.Registry.Path != "" {
		reg, err := registry.LoadRegistry(cfg.Registry.Path)
		if err != nil {
			zapLog.Warn("activity registry not loaded", zap.Error(err), zap.String("path", cfg.Registry.Path))
		} else {
			zapLog.Info("activity registry loaded",
				zap.Int("activities", len(reg.Activities)),
				zap.String("version", reg.Version),
			)
		}
	}

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- START: Register ALL 8 Workers ---

	// --- 1. Directory Workers (2) ---
	if cfg.Workers[psc.TaskType].Enabled {
		handler := psc.NewHandler(
			&psc.Config{
				Timeout:         time.Duration(cfg.Workers[psc.TaskType].Timeout) * time.Millisecond,
				DefaultPageSize: cfg.Directory.DefaultPageSize,
				MaxPageSize:     cfg.Directory.MaxPageSize,
				MaxRadiusKm:     cfg.Directory.MaxRadiusKm,
				DefaultLanguage: cfg.Directory.DefaultLanguage,
			},
			log,
		)
		startWorker(zeebeClient, psc.TaskType, cfg.Workers[psc.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[rr.TaskType].Enabled {
		handler := rr.NewHandler(
			&rr.Config{
				Timeout:  time.Duration(cfg.Workers[rr.TaskType].Timeout) * time.Millisecond,
				MaxItems: cfg.Directory.MaxPageSize,
			},
			log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Matching Workers (1) ---
	if cfg.Workers[cc.TaskType].Enabled {
		cacheTTL := time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second
		store := cc.NewProfileStore(pg.DB, redis.Client, cacheTTL)
		handler := cc.NewHandler(
			&cc.Config{
				Timeout:       time.Duration(cfg.Workers[cc.TaskType].Timeout) * time.Millisecond,
				CacheTTL:      cacheTTL,
				MaxCandidates: cfg.Matching.MaxCandidates,
			},
			store, log,
		)
		startWorker(zeebeClient, cc.TaskType, cfg.Workers[cc.TaskType], handler.Handle, zapLog)
	}

	// --- 3. Data Access Workers (2) ---
	if cfg.Workers[qp.TaskType].Enabled {
		handler := qp.NewHandler(
			&qp.Config{
				Timeout: time.Duration(cfg.Workers[qp.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		startWorker(zeebeClient, qp.TaskType, cfg.Workers[qp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[qe.TaskType].Enabled {
		handler := qe.NewHandler(
			&qe.Config{
				Timeout:   time.Duration(cfg.Workers[qe.TaskType].Timeout) * time.Millisecond,
				IndexName: cfg.Directory.IndexName,
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, qe.TaskType, cfg.Workers[qe.TaskType], handler.Handle, zapLog)
	}

	// --- 4. Geo Workers (1) ---
	if cfg.Workers[ro.TaskType].Enabled {
		geoCfg := &ro.Config{
			Timeout:  time.Duration(cfg.Geocoding.Timeout) * time.Millisecond,
			BaseURL:  cfg.Geocoding.BaseURL,
			APIKey:   cfg.Geocoding.APIKey,
			CacheTTL: time.Duration(cfg.Geocoding.CacheTTL) * time.Second,
		}
		geocoder := ro.NewGeocoder(geoCfg, httpclient.NewClient(geoCfg.Timeout), redis.Client)
		handler := ro.NewHandler(geoCfg, geocoder, log)
		startWorker(zeebeClient, ro.TaskType, cfg.Workers[ro.TaskType], handler.Handle, zapLog)
	}

	// --- 5. Communication Workers (1) ---
	if cfg.Workers[sn.TaskType].Enabled {
		handler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled:     cfg.Notifications.Email.Enabled,
				SMSEnabled:       cfg.Notifications.SMS.Enabled,
				FromEmail:        cfg.Notifications.Email.FromEmail,
				AWSRegion:        cfg.Notifications.AWS.Region,
				TemplateRegistry: cfg.Notifications.TemplateRegistry,
				Timeout:          time.Duration(cfg.Workers[sn.TaskType].Timeout) * time.Millisecond,
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		startWorker(zeebeClient, sn.TaskType, cfg.Workers[sn.TaskType], handler.Handle, zapLog)
	}

	// --- 6. Infrastructure Workers (1) ---
	if cfg.Workers[bsr.TaskType].Enabled {
		handler := bsr.NewHandler(
			&bsr.Config{
				AppVersion: cfg.App.Version,
				Timeout:    time.Duration(cfg.Workers[bsr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, bsr.TaskType, cfg.Workers[bsr.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 8 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
