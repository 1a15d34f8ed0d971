package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/primetime/server/internal/controller"
	"github.com/primetime/server/internal/metrics"
	"github.com/primetime/server/internal/repository/connection/inmemory"
	"github.com/primetime/server/internal/repository/library/sqlite"
	stateRedis "github.com/primetime/server/internal/repository/state/redis"
	"github.com/primetime/server/internal/service/library"
	"github.com/primetime/server/internal/service/playback"
	"github.com/primetime/server/pkg/ctxlogger"
	"github.com/primetime/server/pkg/redisclient"
)

type AppConfig struct {
	Host               string `json:"host"`
	Port               int    `json:"port"`
	LogLevel           string `json:"log_level"`
	SqlitePath         string `json:"sqlite_path"`
	TimecodeIntervalMs int    `json:"timecode_interval_ms"`
	PersistTimeoutMs   int    `json:"persist_timeout_ms"`
	RedisHost          string `json:"redis_host"`
	RedisPort          int    `json:"redis_port"`
	RedisPassword      string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.TimecodeIntervalMs < 1 {
		return fmt.Errorf("timecode interval must be greater than 0")
	}
	if cfg.PersistTimeoutMs < 1 {
		return fmt.Errorf("persist timeout must be greater than 0")
	}
	if cfg.SqlitePath == "" {
		return fmt.Errorf("sqlite path must not be empty")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	store, err := sqlite.Open(cfg.SqlitePath, sqlite.Options{BusyTimeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to open sqlite store: %w", err)
	}
	defer store.Close()

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	stateRepo := stateRedis.NewRepo(rc)
	connectionRepo := inmemory.NewRepo(5*time.Second, logger)
	libraryService := library.NewService(store, logger)
	m := metrics.New()

	playbackService := playback.NewService(stateRepo, libraryService, connectionRepo, m, &playback.Config{
		PersistTimeout:  time.Duration(cfg.PersistTimeoutMs) * time.Millisecond,
		UpdatesInterval: time.Duration(cfg.TimecodeIntervalMs) * time.Millisecond,
	}, logger)

	if err := playbackService.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to rehydrate playback state: %w", err)
	}

	controller := controller.NewController(playbackService, libraryService, connectionRepo, m, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	go playbackService.RunTimecodeUpdates(serverCtx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
