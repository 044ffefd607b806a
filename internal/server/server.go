package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/wellbeam-hq/apiserver/config"
	"github.com/wellbeam-hq/apiserver/internal/ai"
	"github.com/wellbeam-hq/apiserver/internal/archive"
	"github.com/wellbeam-hq/apiserver/internal/db"
	"github.com/wellbeam-hq/apiserver/internal/handlers"
	"github.com/wellbeam-hq/apiserver/internal/mq"
	"github.com/wellbeam-hq/apiserver/internal/services"
	"github.com/wellbeam-hq/apiserver/internal/store"
)

// Server wraps the HTTP server, router and shared resources.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	publisher  mq.Publisher
	logger     zerolog.Logger
}

// New constructs a fully wired Server.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "wellbeam-apiserver").Logger()

	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := newPublisher(ctx, cfg.Broker)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	reportArchive, err := newArchive(ctx, cfg.Archive)
	if err != nil {
		_ = dbConn.Close()
		_ = publisher.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	assessmentRepo := store.NewAssessmentRepository(dbConn)
	eventRepo := store.NewEventRepository(dbConn)

	userService := services.NewUserService(userRepo)
	assessmentService := services.NewAssessmentService(assessmentRepo)
	eventService := services.NewEventService(eventRepo, publisher, logger)
	dashboardService := services.NewDashboardService(assessmentRepo, reportArchive, logger)

	advisor := newAdvisor(cfg.AI, assessmentService, logger)

	authMiddleware := handlers.RequireAuth(&cfg.Auth)

	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		handlers.CorrelationID,
		handlers.RequestLogger(logger),
		handlers.Recover(logger),
		middleware.Timeout(60*time.Second),
	)
	router.Get("/health", handlers.Healthz)
	router.Get("/health/ready", handlers.Ready(dbConn))
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, &cfg.Auth)
		})
		r.Route("/users", func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.UserRouter(r, userService)
		})
		r.Route("/selfassessments", func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.AssessmentRouter(r, assessmentService)
		})
		r.Route("/wellnessevents", func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.EventRouter(r, eventService)
		})
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.DashboardRouter(r, dashboardService)
		})
		r.Route("/ai", func(r chi.Router) {
			r.Use(authMiddleware)
			handlers.AIRouter(r, advisor, userService, dashboardService)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

// Router exposes the chi router, mainly for in-process tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("starting server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes shared resources.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}

func newPublisher(ctx context.Context, cfg config.BrokerConfig) (mq.Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "":
		return mq.Noop{}, nil
	case "rabbitmq":
		return mq.NewRabbitMQPublisher(cfg.RabbitMQ)
	case "pubsub":
		return mq.NewPubSubPublisher(ctx, cfg.PubSub)
	default:
		return nil, fmt.Errorf("unknown broker kind %q", cfg.Kind)
	}
}

func newArchive(ctx context.Context, cfg config.ArchiveConfig) (archive.ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "":
		return nil, nil
	case "minio":
		store, err := archive.NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "gcs":
		store, err := archive.NewGCSStore(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown archive kind %q", cfg.Kind)
	}
}

// newAdvisor picks the recommendation backend once at wiring time. With no
// provider API key the rule-based advisor serves all traffic.
func newAdvisor(cfg config.AIConfig, source ai.AssessmentSource, logger zerolog.Logger) ai.Advisor {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return ai.NewRuleAdvisor(source)
	}
	return ai.NewProviderAdvisor(source, ai.NewGeminiClient(cfg), logger)
}
