package http

import (
	stdhttp "net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ilmhub/app/internal/content"
)

// Options configures the HTTP server wiring.
type Options struct {
	Repository  *content.Repository
	Views       *content.ViewCounter
	Stats       *content.Aggregator
	Database    *gorm.DB
	Redis       *redis.Client
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	RateLimiter RateLimiterSettings
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	repository  *content.Repository
	views       *content.ViewCounter
	stats       *content.Aggregator
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	redis       *redis.Client
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server. Database and Redis are optional and
// only drive the health endpoint; whichever is nil is simply not probed.
func NewServer(opts Options) (*Server, error) {
	if opts.Repository == nil {
		return nil, eris.New("content repository is required")
	}
	if opts.Views == nil {
		return nil, eris.New("view counter is required")
	}
	if opts.Stats == nil {
		return nil, eris.New("stats aggregator is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Ilmhub", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:        api,
		mux:        mux,
		repository: opts.Repository,
		views:      opts.Views,
		stats:      opts.Stats,
		logger:     opts.Logger,
		sentry:     opts.SentryHub,
		db:         opts.Database,
		redis:      opts.Redis,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.registerStatsRoute()
	s.registerHealthRoute()
	s.registerListRoute()
	s.registerItemRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
