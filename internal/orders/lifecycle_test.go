package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ivens03/microservices-padoca/internal/cart"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBackend struct {
	created   []model.OrderRequest
	createErr error
	queue     []model.Order
	queueErr  error
	advanced  []uint
	advErr    error
}

func (f *fakeBackend) CreateOrder(ctx context.Context, auth padoca.Auth, req model.OrderRequest) (*model.Order, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &model.Order{ID: uint(len(f.created)), Customer: req.Customer, Kind: req.Kind, Status: model.StatusReceived}, nil
}

func (f *fakeBackend) ListQueue(ctx context.Context, auth padoca.Auth) ([]model.Order, error) {
	return f.queue, f.queueErr
}

func (f *fakeBackend) AdvanceOrder(ctx context.Context, auth padoca.Auth, id uint) error {
	if f.advErr != nil {
		return f.advErr
	}
	f.advanced = append(f.advanced, id)
	return nil
}

type countingRefresher struct{ n int }

func (r *countingRefresher) Refresh() { r.n++ }

func twoLineCart() *cart.Cart {
	c := cart.New()
	a := model.Product{ID: 1, Price: decimal.RequireFromString("12.50"), Stock: 5}
	b := model.Product{ID: 2, Price: decimal.RequireFromString("3.00"), Stock: 5}
	c.Add(a)
	c.Add(a)
	c.Add(b)
	return c
}

func TestSubmitCartSuccessClearsCart(t *testing.T) {
	backend := &fakeBackend{}
	refresher := &countingRefresher{}
	l := NewLifecycle(backend, zap.NewNop()).WithRefresher(refresher)
	c := twoLineCart()

	order, err := l.SubmitCart(context.Background(), padoca.Token("t"), "", c)
	require.NoError(t, err)
	assert.Equal(t, uint(1), order.ID)

	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 1, refresher.n)

	require.Len(t, backend.created, 1)
	req := backend.created[0]
	assert.Equal(t, DefaultCustomer, req.Customer)
	assert.Equal(t, model.KindCounter, req.Kind)
	assert.Equal(t, []model.OrderLine{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}}, req.Lines)
}

func TestSubmitCartFailurePreservesCart(t *testing.T) {
	backend := &fakeBackend{createErr: padoca.ErrTransport}
	refresher := &countingRefresher{}
	l := NewLifecycle(backend, zap.NewNop()).WithRefresher(refresher)
	c := twoLineCart()

	_, err := l.SubmitCart(context.Background(), padoca.Token("t"), "Mesa 3", c)
	assert.ErrorIs(t, err, padoca.ErrTransport)

	assert.Len(t, c.Lines(), 2)
	assert.Equal(t, "28.00", c.Total().StringFixed(2))
	assert.Equal(t, 0, refresher.n)
}

func TestSubmitEmptyCart(t *testing.T) {
	backend := &fakeBackend{}
	l := NewLifecycle(backend, zap.NewNop())

	_, err := l.SubmitCart(context.Background(), padoca.Token("t"), "", cart.New())
	assert.ErrorIs(t, err, cart.ErrEmpty)
	assert.Empty(t, backend.created)
}

func TestSubmitCommission(t *testing.T) {
	backend := &fakeBackend{}
	l := NewLifecycle(backend, zap.NewNop())
	when := time.Date(2026, 10, 20, 15, 30, 0, 0, time.Local)

	order, err := l.SubmitCommission(context.Background(), padoca.Token("t"), "Maria Silva", when, "Bolo de cenoura 2kg")
	require.NoError(t, err)
	assert.Equal(t, model.KindCommission, order.Kind)

	req := backend.created[0]
	assert.Equal(t, "2026-10-20T15:30", req.ScheduledAt)
	assert.Equal(t, []model.OrderLine{{Description: "Bolo de cenoura 2kg"}}, req.Lines)

	_, err = l.SubmitCommission(context.Background(), padoca.Token("t"), "Maria", time.Time{}, "x")
	assert.Error(t, err)
	_, err = l.SubmitCommission(context.Background(), padoca.Token("t"), "Maria", when, "  ")
	assert.Error(t, err)
}

func TestFetchQueueFiltersTerminalAndFailsOpen(t *testing.T) {
	backend := &fakeBackend{queue: []model.Order{
		{ID: 1, Status: model.StatusReceived},
		{ID: 2, Status: model.StatusDelivered},
		{ID: 3, Status: model.StatusReady},
		{ID: 4, Status: model.StatusCancelled},
	}}
	l := NewLifecycle(backend, zap.NewNop())

	queue, err := l.FetchQueue(context.Background(), padoca.Token("t"))
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, uint(1), queue[0].ID)
	assert.Equal(t, uint(3), queue[1].ID)

	backend.queueErr = errors.New("network down")
	queue, err = l.FetchQueue(context.Background(), padoca.Token("t"))
	assert.Error(t, err)
	assert.NotNil(t, queue)
	assert.Empty(t, queue)
}

func TestAdvance(t *testing.T) {
	backend := &fakeBackend{}
	refresher := &countingRefresher{}
	l := NewLifecycle(backend, zap.NewNop()).WithRefresher(refresher)

	require.NoError(t, l.Advance(context.Background(), padoca.Token("t"), 7))
	assert.Equal(t, []uint{7}, backend.advanced)
	assert.Equal(t, 1, refresher.n)

	backend.advErr = &padoca.APIError{StatusCode: 500}
	assert.Error(t, l.Advance(context.Background(), padoca.Token("t"), 7))
	assert.Equal(t, 1, refresher.n)
}
