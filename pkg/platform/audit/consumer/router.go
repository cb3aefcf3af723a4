package consumer

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"

	"nyaya/internal/platform/kafka/consumer"
)

// TopicHandler materializes the messages of one audit topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// Router fans consumed audit messages out to per-topic handlers. Messages on
// topics nobody routed are committed and counted, never redelivered.
type Router struct {
	handlers map[string]TopicHandler
	logger   *slog.Logger
	skipped  atomic.Int64
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{handlers: make(map[string]TopicHandler), logger: logger}
}

// Route binds handler to topic and returns the router for chaining.
func (r *Router) Route(topic string, handler TopicHandler) *Router {
	r.handlers[topic] = handler
	return r
}

// Topics lists the routed topics in sorted order, ready for a subscription.
func (r *Router) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		topics = append(topics, t)
	}
	slices.Sort(topics)
	return topics
}

// Skipped counts messages that arrived on an unrouted topic.
func (r *Router) Skipped() int64 {
	return r.skipped.Load()
}

func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if h, ok := r.handlers[msg.Topic]; ok {
		return h.Handle(ctx, msg)
	}
	r.skipped.Add(1)
	r.logger.WarnContext(ctx, "audit message on unrouted topic",
		"topic", msg.Topic,
		"key", string(msg.Key),
	)
	return nil
}
