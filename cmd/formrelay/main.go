// Command formrelay accepts website form submissions and relays them by email.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/formrelay/internal/httpapi"
	"github.com/dmitrymomot/formrelay/internal/intake"
	"github.com/dmitrymomot/formrelay/internal/intake/mongostore"
	"github.com/dmitrymomot/formrelay/pkg/config"
	"github.com/dmitrymomot/formrelay/pkg/email"
	"github.com/dmitrymomot/formrelay/pkg/file"
	"github.com/dmitrymomot/formrelay/pkg/httpserver"
	"github.com/dmitrymomot/formrelay/pkg/logger"
	"github.com/dmitrymomot/formrelay/pkg/mongo"
	"github.com/dmitrymomot/formrelay/pkg/ratelimit"
	"github.com/dmitrymomot/formrelay/pkg/redis"
	"github.com/dmitrymomot/formrelay/pkg/requestid"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"formrelay"`
	LogLevel    string `env:"LOG_LEVEL"`
}

func main() {
	if err := config.LoadEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to load .env", logger.Error(err))
		os.Exit(1)
	}

	var app appConfig
	if err := config.Load(&app); err != nil {
		slog.Error("failed to load configuration", logger.Error(err))
		os.Exit(1)
	}

	log := logger.New(
		logger.WithEnvironment(app.Env, app.ServiceName),
		logger.WithLevelName(app.LogLevel),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), log); err != nil {
		log.Error("formrelay stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var (
		serverCfg httpserver.Config
		mailCfg   email.Config
		intakeCfg intake.Config
		apiCfg    httpapi.Config
		fileCfg   file.Config
		mongoCfg  mongo.Config
		redisCfg  redis.Config
	)
	if err := errors.Join(
		config.Load(&serverCfg),
		config.Load(&mailCfg),
		config.Load(&intakeCfg),
		config.Load(&apiCfg),
		config.Load(&fileCfg),
		config.Load(&mongoCfg),
		config.Load(&redisCfg),
	); err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	started := time.Now()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := intake.NewMetrics(reg)

	renderer, err := intake.NewRenderer(intakeCfg)
	if err != nil {
		return err
	}

	pipelineOpts := []intake.Option{
		intake.WithMetrics(metrics),
		intake.WithLogger(log),
	}
	var checks []httpserver.Check

	// Missing mail settings are reported per request, not at startup.
	if mailCfg.HasSender() && mailCfg.HasCredential() {
		sender, err := email.New(ctx, mailCfg)
		if err != nil {
			return fmt.Errorf("mail sender: %w", err)
		}
		dispatcher := intake.NewDispatcher(sender, mailCfg.Timeout, metrics)
		pipelineOpts = append(pipelineOpts, intake.WithSender(dispatcher))
		log.Info("mail sender ready", logger.Provider(dispatcher.Provider()), slog.String("recipient", mailCfg.Recipient))
	} else {
		log.Warn("mail sender not configured; submissions will not be emailed")
	}

	if mongoCfg.Enabled() {
		client, err := mongo.New(ctx, mongoCfg)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(dctx); err != nil {
				log.Warn("mongo disconnect", logger.Error(err))
			}
		}()

		db := client.Database(mongo.DatabaseName(mongoCfg))
		store, err := mongostore.New(ctx, db, mongoCfg.Collection, mongoCfg.WriteTimeout)
		if err != nil {
			return err
		}
		pipelineOpts = append(pipelineOpts, intake.WithStore(store))
		checks = append(checks, httpserver.Check{Name: "mongodb", Probe: mongo.Healthcheck(client)})
		log.Info("submission store ready", slog.String("database", db.Name()), slog.String("collection", mongoCfg.Collection))
	}

	var limitStore ratelimit.Store
	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("redis close", logger.Error(err))
			}
		}()
		limitStore = ratelimit.NewRedisStore(client, redisCfg.KeyPrefix)
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
	} else {
		mem := ratelimit.NewMemoryStore(ratelimit.WithCleanupInterval(apiCfg.Window()))
		defer mem.Close()
		limitStore = mem
	}

	limiter, err := ratelimit.NewFixedWindow(limitStore, ratelimit.Config{
		Window: apiCfg.Window(),
		Max:    apiCfg.RateLimitMax,
	})
	if err != nil {
		return err
	}
	log.Info("rate limiter ready",
		logger.Group("rate_limit",
			slog.Duration("window", apiCfg.Window()),
			slog.Int("max", apiCfg.RateLimitMax),
			slog.Bool("shared", redisCfg.Enabled()),
		),
	)

	archive, err := file.NewStorage(ctx, fileCfg)
	if err != nil {
		return fmt.Errorf("attachment store: %w", err)
	}
	if archive != nil {
		pipelineOpts = append(pipelineOpts, intake.WithArchive(archive))
		if s3, ok := archive.(*file.S3Storage); ok {
			checks = append(checks, httpserver.Check{Name: "s3", Probe: s3.Ping})
		}
	}

	pipeline := intake.NewPipeline(mailCfg, renderer, pipelineOpts...)

	api := httpapi.New(apiCfg, pipeline,
		httpapi.WithPolicy(fileCfg.Policy()),
		httpapi.WithLimiter(limiter),
		httpapi.WithHealthChecks(checks...),
		httpapi.WithMetrics(metrics, reg),
		httpapi.WithLogger(log),
		httpapi.WithStartTime(started),
	)

	server := httpserver.NewFromConfig(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(log *slog.Logger, addr string) {
			log.Info("formrelay listening", slog.String("addr", addr), slog.Any("origins", apiCfg.AllowedOrigins))
		}),
	)
	return server.Run(ctx, api.Routes())
}
