// Package http exposes the auth services over a gin router.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type AuthService interface {
	Signup(ctx context.Context, req services.SignupRequest) (*models.User, error)
	Signin(ctx context.Context, req services.SigninRequest) (*services.SigninResult, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	User(ctx context.Context, id string) (*models.User, error)
}

type VerificationService interface {
	Initiate(ctx context.Context, user *models.User) (*models.Verification, error)
	Resend(ctx context.Context, userID string) (*models.Verification, error)
	Verify(ctx context.Context, userID, uniqueString string) error
}

type Options struct {
	Address string
	// SendVerificationOnSignup starts the verification workflow right
	// after a successful signup.
	SendVerificationOnSignup bool
	CORSAllowedOrigins       []string
	Gatherer                 prometheus.Gatherer
	Metrics                  *metrics.Metrics
}

type HTTPServer struct {
	opts         Options
	auth         AuthService
	verification VerificationService
	logger       logging.Logger
	engine       *gin.Engine
}

func NewHTTPServer(opts Options, l logging.Logger, as AuthService, vs VerificationService) *HTTPServer {
	s := &HTTPServer{
		opts:         opts,
		auth:         as,
		verification: vs,
		logger:       l.With("module", "http_server"),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	if len(s.opts.CORSAllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = s.opts.CORSAllowedOrigins
		cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
		r.Use(cors.New(cfg))
	}

	r.GET("/health", s.health)
	if s.opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	a := r.Group("/auth")
	{
		a.POST("/signup", s.signup)
		a.POST("/signin", s.signin)
		a.GET("/signout", s.signout)
		a.POST("/signout", s.signout)
		a.GET("/verify/:userId/:uniqueString", s.verify)

		protected := a.Group("")
		protected.Use(s.requireToken())
		{
			protected.POST("/verify/resend", s.resend)
			protected.GET("/me", s.me)
		}
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
