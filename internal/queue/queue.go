package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/campaign-scheduler/internal/model"
)

// TopicTransitions carries model.TransitionEvent payloads.
const TopicTransitions = "campaign_transitions"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers to every subscriber on its own goroutine and retries failures
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	log        logrus.FieldLogger
	MaxRetries int
	RetryDelay time.Duration
}

func NewInMemoryQueue(log logrus.FieldLogger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		log:        log,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(handler, JobPayload{
			Topic:      topic,
			Payload:    payload,
			MaxRetries: q.MaxRetries,
		})
	}
	return nil
}

// processJob handles retries with a linear backoff
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		entry := q.log.WithFields(logrus.Fields{
			"topic":   job.Topic,
			"attempt": job.RetryCount,
			"error":   err.Error(),
		})
		if job.RetryCount > job.MaxRetries {
			entry.Error("job permanently failed")
			return
		}
		entry.Warn("job failed, retrying")
		time.Sleep(time.Duration(job.RetryCount) * q.RetryDelay)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartTransitionSubscriber logs every lifecycle event for the in-process deployment, where
// no broker carries them to the distribution worker.
func StartTransitionSubscriber(q Queue, topic string, log logrus.FieldLogger) error {
	err := q.Subscribe(topic, func(payload any) error {
		ev, ok := payload.(model.TransitionEvent)
		if !ok {
			log.WithField("payload_type", fmt.Sprintf("%T", payload)).Warn("invalid payload type, expected TransitionEvent")
			return nil // no retry
		}
		log.WithFields(logrus.Fields{
			"event_id":    ev.ID,
			"campaign_id": ev.CampaignID,
			"from_status": ev.From,
			"to_status":   ev.To,
			"trigger":     ev.Trigger,
		}).Info("campaign transition delivered")
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}
