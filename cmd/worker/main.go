// cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/campaign-scheduler/internal/config"
	"github.com/unclebandit/campaign-scheduler/internal/logging"
	"github.com/unclebandit/campaign-scheduler/internal/model"
	"github.com/unclebandit/campaign-scheduler/internal/queue"
	"github.com/unclebandit/campaign-scheduler/internal/service"
)

// Sink delivers a rendered notice to the distribution side. An error requeues the event.
type Sink func(ev model.TransitionEvent, notice string) error

// Worker turns lifecycle events into distribution notices.
type Worker struct {
	Template string
	Sink     Sink
	Log      logrus.FieldLogger
}

// Handle processes one message body. Malformed payloads are logged and dropped so they are
// acked instead of cycling through the queue.
func (w *Worker) Handle(body []byte) error {
	var ev model.TransitionEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		w.Log.WithError(err).Warn("invalid transition payload, dropping")
		return nil
	}
	if ev.CampaignID == "" || !ev.To.Valid() {
		w.Log.WithField("event_id", ev.ID).Warn("incomplete transition event, dropping")
		return nil
	}

	// Distribution only cares about campaigns going live and wrapping up.
	if ev.To != model.StatusActive && ev.To != model.StatusCompleted {
		w.Log.WithFields(logrus.Fields{"campaign_id": ev.CampaignID, "to_status": ev.To}).Debug("transition ignored")
		return nil
	}

	notice := service.RenderNotice(w.Template, ev)
	if err := w.Sink(ev, notice); err != nil {
		return fmt.Errorf("deliver notice for %s: %w", ev.CampaignID, err)
	}
	return nil
}

func logSink(log logrus.FieldLogger) Sink {
	return func(ev model.TransitionEvent, notice string) error {
		log.WithFields(logrus.Fields{
			"event_id":    ev.ID,
			"campaign_id": ev.CampaignID,
			"to_status":   ev.To,
		}).Info(notice)
		return nil
	}
}

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.WithError(err).Fatal("invalid logging configuration")
	}
	if cfg.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	q, err := queue.DialAMQP(cfg.AMQPURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to RabbitMQ")
	}
	defer q.Close()

	template := cfg.NoticeTemplate
	if template == "" {
		template = service.DefaultNoticeTemplate
	}
	w := &Worker{Template: template, Sink: logSink(log), Log: log}

	err = q.Subscribe(cfg.EventsQueue, func(payload any) error {
		body, ok := payload.([]byte)
		if !ok {
			log.WithField("payload_type", fmt.Sprintf("%T", payload)).Warn("unexpected payload type")
			return nil
		}
		return w.Handle(body)
	})
	if err != nil {
		log.WithError(err).Fatal("failed to register consumer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("queue", cfg.EventsQueue).Info("worker running, waiting for transitions")
	<-ctx.Done()
	log.Info("worker shutting down")
}
