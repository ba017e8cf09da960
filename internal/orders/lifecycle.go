// Package orders bridges user actions and the backend order queue.
package orders

import (
	"context"
	"strings"
	"time"

	"github.com/ivens03/microservices-padoca/internal/cart"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
)

// DefaultCustomer is used for storefront checkouts when no name is given
const DefaultCustomer = "Cliente App"

// Backend is the part of the REST client the lifecycle needs
type Backend interface {
	CreateOrder(ctx context.Context, auth padoca.Auth, req model.OrderRequest) (*model.Order, error)
	ListQueue(ctx context.Context, auth padoca.Auth) ([]model.Order, error)
	AdvanceOrder(ctx context.Context, auth padoca.Auth, id uint) error
}

// Refresher is told to re-fetch the queue after a change
type Refresher interface {
	Refresh()
}

// Lifecycle submits, lists and advances orders. It keeps no local state
// machine: the backend decides every transition.
type Lifecycle struct {
	backend   Backend
	refresher Refresher
	logger    *zap.Logger
}

// NewLifecycle creates the order lifecycle client
func NewLifecycle(backend Backend, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{backend: backend, logger: logger}
}

// WithRefresher sets what is refreshed after a successful submit or advance
func (l *Lifecycle) WithRefresher(r Refresher) *Lifecycle {
	l.refresher = r
	return l
}

// Submit validates and sends a new order. Failures are returned unchanged
// to the caller; nothing is retried.
func (l *Lifecycle) Submit(ctx context.Context, auth padoca.Auth, customer string, kind model.OrderKind, scheduledAt string, lines []model.OrderLine) (*model.Order, error) {
	req := model.OrderRequest{
		Customer:    strings.TrimSpace(customer),
		Kind:        kind,
		ScheduledAt: scheduledAt,
		Lines:       lines,
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := l.backend.CreateOrder(ctx, auth, req)
	prometheus.RecordCheckout(string(kind), len(lines), err)
	if err != nil {
		l.logger.Error("Order submission failed",
			zap.String("customer", req.Customer),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, err
	}

	l.logger.Info("Order submitted",
		zap.Uint("order_id", order.ID),
		zap.String("kind", string(kind)),
		zap.Int("lines", len(lines)))
	l.refresh()
	return order, nil
}

// SubmitCart checks the cart out as a counter sale. The cart is cleared only
// when the backend accepted the order; on failure it is left untouched.
func (l *Lifecycle) SubmitCart(ctx context.Context, auth padoca.Auth, customer string, c *cart.Cart) (*model.Order, error) {
	if c.IsEmpty() {
		return nil, cart.ErrEmpty
	}
	if strings.TrimSpace(customer) == "" {
		customer = DefaultCustomer
	}

	order, err := l.Submit(ctx, auth, customer, model.KindCounter, "", c.OrderLines())
	if err != nil {
		return nil, err
	}
	c.Clear()
	return order, nil
}

// SubmitCommission registers a scheduled order described in free text
func (l *Lifecycle) SubmitCommission(ctx context.Context, auth padoca.Auth, customer string, when time.Time, description string) (*model.Order, error) {
	if when.IsZero() {
		return nil, model.ErrInvalid("dataHora is required for a commission")
	}
	if strings.TrimSpace(description) == "" {
		return nil, model.ErrInvalid("descricao is required for a commission")
	}
	lines := []model.OrderLine{{Description: strings.TrimSpace(description)}}
	return l.Submit(ctx, auth, customer, model.KindCommission, when.Format(model.ScheduleLayout), lines)
}

// FetchQueue returns the open orders. On failure it returns an empty,
// non-nil slice together with the error so renderers can ignore the error
// and pollers can keep their last good snapshot.
func (l *Lifecycle) FetchQueue(ctx context.Context, auth padoca.Auth) ([]model.Order, error) {
	orders, err := l.backend.ListQueue(ctx, auth)
	if err != nil {
		l.logger.Warn("Failed to fetch order queue", zap.Error(err))
		return []model.Order{}, err
	}

	open := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsOpen() {
			open = append(open, o)
		}
	}
	return open, nil
}

// Advance asks the backend to move the order one step forward. No local
// validation is done; the next fetch shows the resulting status.
func (l *Lifecycle) Advance(ctx context.Context, auth padoca.Auth, orderID uint) error {
	if err := l.backend.AdvanceOrder(ctx, auth, orderID); err != nil {
		l.logger.Error("Failed to advance order", zap.Uint("order_id", orderID), zap.Error(err))
		return err
	}
	l.logger.Info("Order advanced", zap.Uint("order_id", orderID))
	l.refresh()
	return nil
}

func (l *Lifecycle) refresh() {
	if l.refresher != nil {
		l.refresher.Refresh()
	}
}
