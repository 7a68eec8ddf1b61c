package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/bus-maintenance/internal/auth"
	"github.com/ukydev/bus-maintenance/internal/config"
	"github.com/ukydev/bus-maintenance/internal/dataset"
	"github.com/ukydev/bus-maintenance/internal/db"
	"github.com/ukydev/bus-maintenance/internal/handlers"
	"github.com/ukydev/bus-maintenance/internal/metrics"
	"github.com/ukydev/bus-maintenance/internal/middleware"
	"github.com/ukydev/bus-maintenance/internal/models"
	"github.com/ukydev/bus-maintenance/internal/notify"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.WithError(err).Fatal("Dashboard stopped")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	cfg = cfg.Dashboard()
	m := metrics.New()
	opts := []dataset.Option{dataset.WithMetrics(m)}

	if cfg.MongoURI != "" {
		client, err := db.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Warn("Snapshot archive disabled")
		} else {
			log.WithField("database", cfg.MongoDB).Info("Connected to MongoDB")
			defer func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.WithError(err).Warn("Failed to disconnect from MongoDB")
				}
			}()
			opts = append(opts, dataset.WithArchive(db.NewMongoSnapshotCollection(client, cfg.MongoDB)))
		}
	}

	notifiers := buildNotifiers(cfg)
	if len(notifiers) > 0 {
		opts = append(opts, dataset.WithNotifier(notifiers))
		defer func() {
			if err := notifiers.Close(); err != nil {
				log.WithError(err).Warn("Failed to close notifiers")
			}
		}()
	}

	svc := dataset.NewService(dataset.NewRand(cfg.Seed), opts...)
	if _, err := svc.Regenerate(ctx, cfg.BusCount, cfg.DaysBack); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}

	var authService *auth.Service
	if cfg.JWTSecret != "" {
		s, err := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
		if err != nil {
			return fmt.Errorf("auth: %w", err)
		}
		authService = s
	} else {
		log.Warn("JWT_SECRET not set, regeneration is unauthenticated")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, svc, authService, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildNotifiers connects the configured brokers. A broker that cannot be
// reached is skipped.
func buildNotifiers(cfg config.Config) notify.Multi {
	var out notify.Multi

	if cfg.MQTTBroker != "" {
		n, err := notify.NewMQTTNotifier(cfg.MQTTBroker, cfg.MQTTTopic, fmt.Sprintf("bus-maintenance-%d", os.Getpid()))
		if err != nil {
			log.WithError(err).WithField("broker", cfg.MQTTBroker).Warn("MQTT notifications disabled")
		} else {
			out = append(out, n)
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		n, err := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.WithError(err).Warn("Kafka notifications disabled")
		} else {
			out = append(out, n)
		}
	}

	return out
}

func newRouter(cfg config.Config, source handlers.SnapshotSource, authService *auth.Service, m *metrics.Metrics) *mux.Router {
	h := handlers.NewDashboardHandler(source, cfg.TopN)
	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()
	rateLimiter.TrustProxyHeaders = cfg.TrustProxyHeaders

	r := mux.NewRouter()
	r.Use(middleware.Logging(m))

	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/summary", h.Summary).Methods(http.MethodGet)
	api.HandleFunc("/events", h.Events).Methods(http.MethodGet)
	api.HandleFunc("/events.csv", h.EventsCSV).Methods(http.MethodGet)

	var regenerate http.Handler = http.HandlerFunc(h.Regenerate)
	regenerate = authMiddleware.RequireScope(models.ScopeRegenerate)(regenerate)
	regenerate = authMiddleware.Authenticate(regenerate)
	regenerate = rateLimiter.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindowSeconds)(regenerate)
	api.Handle("/regenerate", regenerate).Methods(http.MethodPost)

	return r
}
