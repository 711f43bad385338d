// Command notifier consumes notification events from Kafka and delivers
// them as email through the platform mail API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/messaging/kafka"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/internal/notifier"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: LABORGUARD_* environment variables)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "notifier:", err)
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

	handler := notifier.NewHandler(notifier.NewMailer(cfg.Notifier, log), log)
	consumer := kafka.NewConsumer(cfg.Kafka, log)
	defer consumer.Close()

	log.Info("notifier started", logging.String("group_id", cfg.Kafka.GroupID))
	return consumer.Run(ctx, handler.Handle)
}
