// Package server wires the newsletter server together: storage, password
// verification, mail transport, the HTTP surface and the gRPC health probe,
// and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/newsletter/internal/logging"
	"github.com/dmitrijs2005/newsletter/internal/server/archive"
	"github.com/dmitrijs2005/newsletter/internal/server/attempts"
	"github.com/dmitrijs2005/newsletter/internal/server/config"
	"github.com/dmitrijs2005/newsletter/internal/server/email"
	"github.com/dmitrijs2005/newsletter/internal/server/password"
	"github.com/dmitrijs2005/newsletter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/newsletter/internal/server/services"
	"github.com/dmitrijs2005/newsletter/internal/server/signing"
	"github.com/dmitrijs2005/newsletter/internal/server/workerpool"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/newsletter/internal/server/grpc"
	hs "github.com/dmitrijs2005/newsletter/internal/server/http"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	pool    *workerpool.Pool
	http    *hs.Server
	health  *gs.HealthServer
	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.Env)
	app := &App{config: c, logger: logger}

	if err := app.init(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	codec, err := signing.NewCodec([]byte(c.HMACSecret))
	if err != nil {
		return fmt.Errorf("hmac secret: %w", err)
	}

	sender, closeSender, err := email.NewSender(ctx, c, app.logger)
	if err != nil {
		return fmt.Errorf("email init error: %w", err)
	}
	app.closers = append(app.closers, closeSender)
	sender = email.WithTimeout(sender, c.EmailTimeout)

	templates, err := email.NewTemplates()
	if err != nil {
		return err
	}

	var failures services.FailureCounter = attempts.Nop{}
	if c.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr, Password: c.RedisPassword})
		app.closers = append(app.closers, rdb.Close)
		failures = attempts.NewCounter(rdb, c.FailedLoginWindow)
	}

	var issues services.IssueArchive = archive.Nop{}
	if c.S3Bucket != "" {
		a, err := archive.NewS3Archive(ctx, archive.Options{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
		})
		if err != nil {
			return fmt.Errorf("archive init error: %w", err)
		}
		issues = a
	}

	app.pool = workerpool.New(c.HashWorkers)
	hasher := password.NewHasher(c.PasswordParams())

	registry := services.NewRegistry(db, rm)
	verifier := services.NewCredentialVerifier(db, rm, hasher, app.pool, c.DummyPasswordHash, failures, app.logger)
	dispatcher := services.NewDispatcher(db, rm, sender, issues, c.DispatchConcurrency, app.logger)

	app.http = hs.NewServer(c.HTTPAddr, hs.Deps{
		Registry:      registry,
		Confirmations: services.NewConfirmationMailer(sender, templates, c.BaseURL),
		Credentials:   verifier,
		Dispatcher:    dispatcher,
		Codec:         codec,
		SessionSecret: []byte(c.SessionSecret),
		SessionTTL:    c.SessionTTL,
		SecureCookies: c.Env == logging.EnvProd,
	}, app.logger)

	app.health = gs.NewHealthServer(c.GRPCHealthAddr, app.logger)
	return nil
}

// Close releases everything NewApp acquired, newest first.
func (app *App) Close() error {
	if app.pool != nil {
		app.pool.Close()
	}
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
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
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.health.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc health server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until a signal arrives or a server fails, then closes resources.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()

	app.health.SetServing(true)

	wg.Wait()

	if err := app.Close(); err != nil {
		app.logger.Error(ctx, "shutdown", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
