package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dialect := database.Dialect(cfg.DatabaseDriver)
	db, err := database.NewDBConnection(dialect, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Repositories
	meetingRepo := database.NewMeetingRepository(db, dialect)
	directoryRepo := database.NewDirectoryRepository(db, dialect)

	// Events and notification worker
	var (
		events   usecase.EventPublisher = queue.LogProducer{}
		rabbitMQ *queue.RabbitMQ
		broker   handlers.BrokerConn
	)
	if cfg.EventsEnabled() {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbitMQ.Close()

		events = queue.NewProducer(rabbitMQ.Ch)
		broker = rabbitMQ.Conn

		if cfg.MailEnabled() {
			sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
			worker := queue.NewWorker(rabbitMQ.Ch, directoryRepo, sender)
			go func() {
				if err := worker.Start(ctx, queue.NotificationQueue); err != nil {
					log.Printf("[worker] stopped: %v", err)
				}
			}()
		} else {
			log.Printf("MAIL_HOST not set, meeting notifications disabled")
		}
	} else {
		log.Printf("RABBITMQ_URL not set, meeting events are only logged")
	}

	// Use cases
	resolver := usecase.NewReferenceResolver(directoryRepo)
	meetingHandler := handlers.NewMeetingHandler(
		usecase.NewAddMeetingUseCase(meetingRepo, events),
		usecase.NewListMeetingsUseCase(meetingRepo, resolver),
		usecase.NewViewMeetingUseCase(meetingRepo, resolver),
		usecase.NewDeleteMeetingUseCase(meetingRepo, events),
		usecase.NewDeleteManyMeetingsUseCase(meetingRepo, events),
	)
	healthHandler := handlers.NewHealthHandler(db, broker, version)

	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer)
	limiter := middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/meeting", func(r chi.Router) {
		r.Use(limiter.Limit)
		r.Use(middleware.Authenticate(tokens))
		meetingHandler.Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("meeting service listening on %s (%s)", cfg.Port, dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}
