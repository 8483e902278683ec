// Package http is the browser and JSON facing surface of the newsletter
// server: subscription forms, publisher login and the publish endpoint.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/models"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"github.com/dmitrijs2005/newsletter/internal/server/signing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const shutdownTimeout = 5 * time.Second

type Registrar interface {
	Register(ctx context.Context, email, name string) (*services.Registration, error)
	Confirm(ctx context.Context, token string) error
	Pending(ctx context.Context, email string) (*services.Registration, error)
}

type ConfirmationSender interface {
	Send(ctx context.Context, reg *services.Registration) error
}

type Authenticator interface {
	Validate(ctx context.Context, username, password string) (uuid.UUID, error)
}

type Publisher interface {
	Publish(ctx context.Context, publisherID uuid.UUID, issue models.Issue) (*services.Report, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Registry      Registrar
	Confirmations ConfirmationSender
	Credentials   Authenticator
	Dispatcher    Publisher
	Codec         *signing.Codec
	SessionSecret []byte
	SessionTTL    time.Duration
	// SecureCookies sets the Secure attribute; off for plain-http local runs.
	SecureCookies bool
}

type Server struct {
	address string
	deps    Deps
	logger  logging.Logger
}

func NewServer(address string, d Deps, l logging.Logger) *Server {
	return &Server{
		address: address,
		deps:    d,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health_check", s.healthCheck)
	r.Get("/", s.home)

	r.Route("/subscriptions", func(r chi.Router) {
		r.With(subscribeLimit()).Post("/", s.subscribe)
		r.With(resendLimit()).Post("/resend", s.resend)
		r.Get("/confirm", s.confirm)
	})

	r.Get("/login", s.loginForm)
	r.With(loginLimit()).Post("/login", s.login)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/dashboard", s.dashboard)
		r.Post("/newsletters", s.publish)
	})

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(r *http.Request, op string) logging.Logger {
	return s.logger.With("op", op, "request_id", middleware.GetReqID(r.Context()))
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
