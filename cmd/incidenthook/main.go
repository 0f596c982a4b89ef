package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"incidenthook/internal/config"
	"incidenthook/internal/httpserver"
	"incidenthook/internal/logging"
	"incidenthook/internal/relay"
	"incidenthook/internal/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel)
	if cfg.WebhookURL == "" {
		logger.Warn("WEBHOOK_URL is not set; incidents will be rejected until it is configured")
	}

	fwd := webhook.NewForwarder(cfg.DeliveryTimeout, logger)
	svc := relay.NewService(cfg.WebhookURL, fwd, logger)

	handler := httpserver.NewRouter(logger, svc, cfg.MaxBodyBytes)
	server := httpserver.New(cfg.HTTPAddr, handler, cfg.DeliveryTimeout, logger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("http server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.DeliveryTimeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
