// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/campaign-scheduler/internal/config"
	"github.com/unclebandit/campaign-scheduler/internal/controller"
	"github.com/unclebandit/campaign-scheduler/internal/handler"
	"github.com/unclebandit/campaign-scheduler/internal/logging"
	"github.com/unclebandit/campaign-scheduler/internal/queue"
	"github.com/unclebandit/campaign-scheduler/internal/repository"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

func main() {
	cfg, envFound, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}
	if !envFound {
		log.Info("no .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open campaign store")
	}
	defer closeStore()

	q, closeQueue, err := openQueue(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to set up event queue")
	}
	defer closeQueue()

	campaignService := service.NewCampaignService(store, q, log)
	campaignService.Topic = cfg.EventsQueue
	if err := campaignService.Load(ctx); err != nil {
		log.WithError(err).Fatal("failed to load campaigns")
	}

	ticker := service.NewTicker(campaignService, cfg.TickInterval, log)
	go ticker.Start(ctx)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	campaignController := &controller.CampaignController{CampaignService: campaignService, Log: log}
	campaignController.Routes(r)
	handler.NewCalendarHandler(campaignService, log).Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.WithField("addr", srv.Addr).Info("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

// openQueue uses RabbitMQ when AMQP_URL is set; otherwise events are delivered in process
// and only logged.
func openQueue(cfg config.Config, log logrus.FieldLogger) (queue.Queue, func(), error) {
	if cfg.AMQPURL == "" {
		q := queue.NewInMemoryQueue(log)
		if err := queue.StartTransitionSubscriber(q, cfg.EventsQueue, log); err != nil {
			return nil, nil, err
		}
		return q, func() {}, nil
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		return nil, nil, err
	}
	return q, func() {
		if err := q.Close(); err != nil {
			log.WithError(err).Warn("failed to close AMQP connection")
		}
	}, nil
}
