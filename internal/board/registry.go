package board

import (
	"context"
	"sync"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
)

// Fetcher loads the open queue on behalf of a user
type Fetcher interface {
	FetchQueue(ctx context.Context, auth padoca.Auth) ([]model.Order, error)
}

// Registry holds one poller per open board, keyed by session id
type Registry struct {
	ctx      context.Context
	interval time.Duration
	fetcher  Fetcher
	logger   *zap.Logger

	mu      sync.Mutex
	pollers map[string]*Poller
}

// NewRegistry creates a registry whose pollers live at most as long as ctx
func NewRegistry(ctx context.Context, interval time.Duration, fetcher Fetcher, logger *zap.Logger) *Registry {
	return &Registry{
		ctx:      ctx,
		interval: interval,
		fetcher:  fetcher,
		logger:   logger,
		pollers:  make(map[string]*Poller),
	}
}

// Open returns the running poller for the session, starting one if needed
func (r *Registry) Open(sessionID string, auth padoca.Auth) *Poller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pollers[sessionID]; ok {
		return p
	}

	fetch := func(ctx context.Context) ([]model.Order, error) {
		return r.fetcher.FetchQueue(ctx, auth)
	}
	p := NewPoller(r.interval, fetch, r.logger.With(zap.String("session_id", sessionID)))
	p.Start(r.ctx)
	r.pollers[sessionID] = p
	prometheus.BoardOpened()

	r.logger.Info("Board opened", zap.String("session_id", sessionID), zap.Int("open_boards", len(r.pollers)))
	return p
}

// Get returns the poller for the session if its board is open
func (r *Registry) Get(sessionID string) (*Poller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pollers[sessionID]
	return p, ok
}

// Close stops and forgets the session's poller
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	p, ok := r.pollers[sessionID]
	delete(r.pollers, sessionID)
	r.mu.Unlock()

	if !ok {
		return
	}
	p.Stop()
	prometheus.BoardClosed()
	r.logger.Info("Board closed", zap.String("session_id", sessionID))
}

// CloseAll stops every poller
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]string, 0, len(r.pollers))
	for id := range r.pollers {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.Close(id)
	}
}

// Refresh kicks every open board
func (r *Registry) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.pollers {
		p.Refresh()
	}
}

// Len is the number of open boards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pollers)
}
