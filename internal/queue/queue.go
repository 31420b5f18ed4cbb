package queue

import (
	"fmt"
	"log"
	"sync"

	"github.com/unclebandit/mailblast-backend/internal/service"
)

// TopicMailingRuns carries queued mailing run requests.
const TopicMailingRuns = "mailing_runs"

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers each published payload once to every subscriber.
// There is no redelivery: re-running a mailing job would duplicate sends.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go func(h func(payload any) error) {
			if err := h(payload); err != nil {
				log.Printf("⚠️ job on topic %s failed: %v", topic, err)
			}
		}(handler)
	}
	return nil
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartMailingRunSubscriber executes queued mailing runs through the
// dispatcher. Request errors are logged and dropped, never retried.
func StartMailingRunSubscriber(q Queue, svc *service.MailingService) {
	err := q.Subscribe(TopicMailingRuns, func(payload any) error {
		req, ok := payload.(*service.MailingRequest)
		if !ok {
			log.Println("⚠️ invalid payload type on", TopicMailingRuns)
			return nil
		}

		result, err := svc.SendMailing(req)
		if err != nil {
			log.Println("⚠️ queued mailing run failed:", err)
			return nil
		}

		log.Printf("✅ queued mailing run done: total=%d sent=%d failed=%d",
			result.TotalAddresses, result.Sent, result.Failed)
		return nil
	})
	if err != nil {
		log.Println("⚠️ failed to subscribe to", TopicMailingRuns, ":", err)
	}
}
