package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/whyteferrari/RECALLR/config"
	"github.com/whyteferrari/RECALLR/internal/db"
	"github.com/whyteferrari/RECALLR/internal/handlers"
	"github.com/whyteferrari/RECALLR/internal/logging"
	"github.com/whyteferrari/RECALLR/internal/mq"
	"github.com/whyteferrari/RECALLR/internal/services"
	"github.com/whyteferrari/RECALLR/internal/storage"
	"github.com/whyteferrari/RECALLR/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	bus        *mq.MQ
	logger     *slog.Logger
}

// Services groups the use-cases exposed over HTTP.
type Services struct {
	Users      *services.UserService
	Decks      *services.DeckService
	Flashcards *services.FlashcardService
	Tasks      *services.TaskService
	Exports    *services.ExportService
}

// New opens the database, the optional event bus and object storage, and
// builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	bus, err := mq.Open(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	objects, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		if bus != nil {
			_ = bus.Close()
		}
		_ = dbConn.Close()
		return nil, err
	}

	var events services.EventPublisher
	if bus != nil {
		events = mq.NewEventPublisher(bus, cfg.Events.Channel)
	}
	var objectStore services.ObjectStore
	if objects != nil {
		objectStore = objects
	}
	logger.Info("backends configured",
		"events", cfg.Events.Backend,
		"storage", cfg.Storage.Backend,
	)

	userRepo := store.NewUserRepository(dbConn)
	deckRepo := store.NewDeckRepository(dbConn)
	flashcardRepo := store.NewFlashcardRepository(dbConn, dbConn)
	taskRepo := store.NewTaskRepository(dbConn)

	deckService := services.NewDeckService(deckRepo, events)
	svc := Services{
		Users:      services.NewUserService(userRepo),
		Decks:      deckService,
		Flashcards: services.NewFlashcardService(flashcardRepo, deckService, events),
		Tasks:      services.NewTaskService(taskRepo, deckService),
		Exports:    services.NewExportService(objectStore, deckService, flashcardRepo),
	}

	router := NewRouter(cfg, logger, svc, dbConn)

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
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		bus:        bus,
		logger:     logger,
	}, nil
}

// NewRouter builds the middleware stack and mounts every route group.
func NewRouter(cfg config.Config, logger *slog.Logger, svc Services, health handlers.Pinger) *chi.Mux {
	authMiddleware := handlers.RequireAuth(cfg.JWTSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}),
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz(health))
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, svc.Users, cfg.JWTSecret)
	})
	router.Route("/decks", func(r chi.Router) {
		handlers.DeckRouter(r, svc.Decks, svc.Flashcards, svc.Exports, authMiddleware)
	})
	router.Route("/folders", func(r chi.Router) {
		handlers.FolderRouter(r, svc.Decks, authMiddleware)
	})
	router.Route("/flashcards", func(r chi.Router) {
		handlers.FlashcardRouter(r, svc.Flashcards, authMiddleware)
	})
	router.Route("/tasks", func(r chi.Router) {
		handlers.TaskRouter(r, svc.Tasks, authMiddleware)
	})

	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		_ = s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown drains in-flight requests and releases the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.bus != nil {
		if closeErr := s.bus.Close(); closeErr != nil {
			s.logger.Warn("failed to close event bus", "error", closeErr)
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
