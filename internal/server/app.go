// Package server wires the gophauth components together and runs them:
// storage, migrations, mail, services and the HTTP API, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/mail"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	hs "github.com/dmitrijs2005/gophauth/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	httpServer  *hs.HTTPServer
}

// openStore is a seam for tests.
var openStore = repomanager.New

func NewApp(cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.UsesDefaultSecret() {
		logger.Warn(context.Background(), "JWT secret is the development default, set JWT_SECRET before deploying")
	}

	m, err := openStore(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if cfg.DatabaseDSN == "" {
		logger.Warn(context.Background(), "no database configured, using in-memory store")
	}

	sender, err := newSender(cfg, logger)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mt := metrics.New(reg)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer := auth.NewTokenIssuer([]byte(cfg.SecretKey), cfg.SessionTokenValidityDuration)

	as := services.NewAuthService(m, hasher, issuer, cfg.DefaultPermissions, logger.With("module", "auth_service"))
	vs := services.NewVerificationService(m, hasher, mail.WithTimeout(sender, cfg.MailTimeout),
		cfg.VerificationTTL, cfg.BaseURL, mt, logger.With("module", "verification_service"))

	if logging.ParseLevel(cfg.LogLevel) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := hs.NewHTTPServer(hs.Options{
		Address:                  cfg.EndpointAddrHTTP,
		SendVerificationOnSignup: cfg.SendVerificationOnSignup,
		CORSAllowedOrigins:       cfg.CORSAllowedOrigins,
		Gatherer:                 reg,
		Metrics:                  mt,
	}, logger, as, vs)

	return &App{config: cfg, logger: logger, repomanager: m, httpServer: srv}, nil
}

func newSender(cfg *config.Config, logger logging.Logger) (mail.Sender, error) {
	if cfg.SMTPHost == "" {
		logger.Warn(context.Background(), "no SMTP host configured, emails will be logged only")
		return mail.NewLogSender(logger.With("module", "mail")), nil
	}
	return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run migrates the store and serves HTTP until ctx is cancelled or a
// termination signal arrives. The store is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(ctx, "closing store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	if err := app.httpServer.Run(ctx); err != nil {
		return err
	}

	app.logger.Info(ctx, "App stopped")
	return nil
}
