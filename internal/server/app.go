// Package server initializes and runs the main application server.
// It opens the database and queue connections, applies migrations,
// handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/config"
	"github.com/dmitrijs2005/authvault/internal/server/httpapi"
	"github.com/dmitrijs2005/authvault/internal/server/notify"
	"github.com/dmitrijs2005/authvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authvault/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	queue          *notify.RedisQueue
	authService    *services.AuthService
	profileService *services.ProfileService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	queue := notify.NewRedisQueue(cfg.RedisAddr)

	as := services.NewAuthService(db, m, queue, logger, cfg)
	ps := services.NewProfileService(db, m, logger)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		queue:          queue,
		authService:    as,
		profileService: ps,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.authService,
		app.profileService,
		app.db,
		httpapi.PingerFunc(app.queue.Ping),
		app.config.SecretKey,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.queue.Close(); err != nil {
		app.logger.Error(ctx, "queue close error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
