package product

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-aside-cache/internal/models"
)

// ProductCreated is published after a new product is committed
type ProductCreated struct {
	Product models.Product
}

// NotificationHandler reacts to a published ProductCreated
type NotificationHandler func(ctx context.Context, event ProductCreated) error

// Publisher fans ProductCreated out to in-process handlers, in subscription order.
// A failing handler is logged and does not stop the others.
type Publisher struct {
	mu       sync.RWMutex
	handlers []NotificationHandler
	logger   *zap.Logger
}

// NewPublisher creates a publisher with no subscribers
func NewPublisher(logger *zap.Logger) *Publisher {
	return &Publisher{logger: logger}
}

// Subscribe registers a handler for every later Publish
func (p *Publisher) Subscribe(handler NotificationHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Publish delivers the event synchronously
func (p *Publisher) Publish(ctx context.Context, event ProductCreated) {
	p.mu.RLock()
	handlers := make([]NotificationHandler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	for _, handle := range handlers {
		if err := handle(ctx, event); err != nil {
			p.logger.Warn("Product notification handler failed",
				zap.String("product_id", event.Product.ID.String()),
				zap.Error(err))
		}
	}
}

// AssignStockHandler records initial stock assignment for new products
func AssignStockHandler(logger *zap.Logger) NotificationHandler {
	return func(_ context.Context, event ProductCreated) error {
		logger.Info("Assigning initial stock",
			zap.String("product_id", event.Product.ID.String()),
			zap.String("name", event.Product.Name))
		return nil
	}
}
