package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/campaign-scheduler/internal/scheduler"
)

// Evaluator is the part of CampaignService the ticker drives.
type Evaluator interface {
	Evaluate(ctx context.Context) scheduler.Result
}

// Ticker runs the evaluator once at start and then on every interval until ctx is done.
// Missed ticks are harmless: each evaluation only looks at the current time.
type Ticker struct {
	Evaluator Evaluator
	Interval  time.Duration
	Log       logrus.FieldLogger
}

func NewTicker(e Evaluator, interval time.Duration, log logrus.FieldLogger) *Ticker {
	return &Ticker{
		Evaluator: e,
		Interval:  interval,
		Log:       log,
	}
}

func (t *Ticker) Start(ctx context.Context) {
	t.Log.WithField("interval", t.Interval.String()).Info("campaign scheduler started")
	t.tick(ctx)

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Log.Info("campaign scheduler shutting down")
			return
		case <-ticker.C:
			t.tick(ctx)
		}
	}
}

func (t *Ticker) tick(ctx context.Context) {
	res := t.Evaluator.Evaluate(ctx)
	if res.Changed() {
		t.Log.WithFields(logrus.Fields{
			"transitions": len(res.Events),
			"skipped":     len(res.Skipped),
		}).Debug("scheduler tick applied transitions")
	}
}
