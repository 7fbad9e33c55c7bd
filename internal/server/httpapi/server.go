// Package httpapi exposes the service over HTTP/JSON: route registration,
// request validation, bearer-token auth, and the error envelope.
package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authvault/internal/logging"
	"github.com/dmitrijs2005/authvault/internal/server/models"
	"github.com/dmitrijs2005/authvault/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// AuthAPI is the slice of AuthService the transport depends on.
type AuthAPI interface {
	Register(ctx context.Context, email, password, name string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) (string, error)
}

// ProfileAPI is the slice of ProfileService the transport depends on.
type ProfileAPI interface {
	GetProfile(ctx context.Context, userID string) (*models.PublicUser, error)
	UpdateProfile(ctx context.Context, userID, name string) (*models.PublicUser, error)
}

// Pinger reports backend reachability for the readiness probe.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingerFunc adapts a function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HTTPServer serves the public JSON API.
type HTTPServer struct {
	address   string
	logger    logging.Logger
	auth      AuthAPI
	profiles  ProfileAPI
	db        Pinger
	queue     Pinger
	jwtSecret []byte
	started   time.Time
}

// NewHTTPServer wires the transport to the services. db and queue are only
// pinged by the readiness probe.
func NewHTTPServer(address string, l logging.Logger, auth AuthAPI, profiles ProfileAPI, db, queue Pinger, secretKey string) *HTTPServer {
	return &HTTPServer{
		address:   address,
		logger:    l.With("module", "http_server"),
		auth:      auth,
		profiles:  profiles,
		db:        db,
		queue:     queue,
		jwtSecret: []byte(secretKey),
		started:   time.Now(),
	}
}

// newApp builds the fiber application with all middleware and routes
// registered. Split from Run so tests can drive it with app.Test.
func (s *HTTPServer) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(s.requestIDMiddleware)

	app.Get("/health", s.handleHealth)
	app.Get("/health/live", s.handleLive)
	app.Get("/health/ready", s.handleReady)

	app.Post("/auth/register", s.handleRegister)
	app.Post("/auth/login", s.handleLogin)
	app.Post("/auth/password-reset/request", s.handleRequestPasswordReset)
	app.Post("/auth/password-reset/confirm", s.handleConfirmPasswordReset)

	api := app.Group("/api", s.authMiddleware)
	api.Get("/users/me", s.handleGetProfile)
	api.Patch("/users/me", s.handleUpdateProfile)

	app.Use(s.handleNotFound)

	return app
}

// Run starts serving and blocks until ctx is cancelled or the listener fails.
func (s *HTTPServer) Run(ctx context.Context) error {
	app := s.newApp()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	return app.Listen(s.address)
}
