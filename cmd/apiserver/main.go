// Command apiserver runs the complaint service REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/domain/appointment"
	"github.com/laborguard/complaint-service/internal/domain/complaint"
	"github.com/laborguard/complaint-service/internal/domain/notification"
	"github.com/laborguard/complaint-service/internal/domain/registry"
	"github.com/laborguard/complaint-service/internal/infrastructure/database/postgres"
	"github.com/laborguard/complaint-service/internal/infrastructure/database/postgres/repositories"
	"github.com/laborguard/complaint-service/internal/infrastructure/database/redis"
	"github.com/laborguard/complaint-service/internal/infrastructure/messaging/kafka"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/prometheus"
	"github.com/laborguard/complaint-service/internal/infrastructure/storage/minio"
	httpapi "github.com/laborguard/complaint-service/internal/interfaces/http"
	"github.com/laborguard/complaint-service/internal/interfaces/http/handlers"
	"github.com/laborguard/complaint-service/internal/interfaces/http/middleware"
	"github.com/laborguard/complaint-service/internal/reports"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: LABORGUARD_* environment variables)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "apiserver:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(logging.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL pool and schema.
	db, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	migrator, err := postgres.NewMigrator(db.DB(), cfg.Database.MigrationsPath, log)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		return err
	}

	// Redis for the booking mutex and stats cache.
	redisClient, err := redis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Kafka producer feeding the notifier worker.
	producer := kafka.NewProducer(cfg.Kafka, log)
	defer producer.Close()
	dispatcher := notification.NewDispatcher(producer, log, func() {
		prometheus.NotificationPublishFailures.Inc()
	})

	// MinIO bucket for complaint evidence.
	evidence, err := minio.NewEvidenceStore(ctx, cfg.MinIO, log)
	if err != nil {
		return err
	}

	// Repositories and domain services.  The appointment service books
	// consultations for the complaint service, and the complaint service
	// triggers bookings, so the complaint service receives the appointment
	// service through the ConsultationBooker port.
	complaintRepo := repositories.NewComplaintRepository(db.DB())
	officerRepo := repositories.NewOfficerRepository(db.DB())
	appointmentRepo := repositories.NewAppointmentRepository(db.DB())

	registrySvc := registry.NewService(officerRepo, log)
	appointmentSvc := appointment.NewService(appointmentRepo, complaintRepo, registrySvc,
		redis.NewLock(redisClient), dispatcher, log)
	complaintSvc := complaint.NewService(complaintRepo, registrySvc, appointmentSvc, dispatcher, log)

	renderer, err := reports.NewRenderer()
	if err != nil {
		return err
	}

	statsCache := redis.NewCache(redisClient, cfg.Redis.StatsTTL)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		ComplaintHandler:   handlers.NewComplaintHandler(complaintSvc, evidence, renderer, statsCache, log),
		AppointmentHandler: handlers.NewAppointmentHandler(appointmentSvc),
		RegistryHandler:    handlers.NewRegistryHandler(registrySvc, statsCache),
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}),
		AuthMiddleware:    middleware.NewAuthMiddleware(middleware.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)),
		LoggingMiddleware: middleware.NewLoggingMiddleware(log),
		CORSMiddleware:    middleware.NewCORSMiddleware("*"),
	})

	server := httpapi.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	return server.Shutdown(context.Background())
}
