// Package board keeps the staff order board fresh by polling the queue.
package board

import (
	"context"
	"sync"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
)

// FetchFunc loads the current open queue
type FetchFunc func(ctx context.Context) ([]model.Order, error)

// Snapshot is the last queue a poller saw
type Snapshot struct {
	Orders    []model.Order `json:"pedidos"`
	UpdatedAt time.Time     `json:"atualizadoEm"`
	LastError string        `json:"ultimoErro,omitempty"`
}

// Poller refreshes a queue snapshot on a fixed interval while started.
// Results of fetches that finish after Stop are dropped.
type Poller struct {
	interval time.Duration
	fetch    FetchFunc
	logger   *zap.Logger

	mu         sync.RWMutex
	snapshot   Snapshot
	generation uint64
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
	kick       chan struct{}
	notify     func(Snapshot)
}

// NewPoller creates a stopped poller
func NewPoller(interval time.Duration, fetch FetchFunc, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		interval: interval,
		fetch:    fetch,
		logger:   logger,
		snapshot: Snapshot{Orders: []model.Order{}},
		kick:     make(chan struct{}, 1),
	}
}

// OnUpdate registers fn to run after every applied fetch, failed or not.
// Call it before Start.
func (p *Poller) OnUpdate(fn func(Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notify = fn
}

// Start fetches immediately and then once per interval until Stop or until
// ctx is done. Starting a running poller does nothing.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.generation++
	gen := p.generation
	subCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.pollLoop(subCtx, gen, done)

	p.logger.Debug("Board poller started", zap.Duration("interval", p.interval))
}

// Stop cancels the loop. It does not wait for an in-flight fetch; its result
// is discarded when it arrives.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.generation++
	p.cancel()
	p.cancel = nil

	p.logger.Debug("Board poller stopped")
}

// Done is closed when the current loop has exited. Nil before the first Start.
func (p *Poller) Done() <-chan struct{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.done
}

// Running reports whether the loop is active
func (p *Poller) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// Refresh asks the loop to fetch now without waiting for the next tick
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// RefreshNow fetches synchronously and returns the resulting snapshot
func (p *Poller) RefreshNow(ctx context.Context) (Snapshot, error) {
	p.mu.RLock()
	gen := p.generation
	p.mu.RUnlock()

	err := p.poll(ctx, gen)
	return p.Snapshot(), err
}

// Snapshot returns a copy of the last good queue
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.snapshot
	s.Orders = append([]model.Order(nil), p.snapshot.Orders...)
	return s
}

func (p *Poller) pollLoop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx, gen)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx, gen)
		case <-p.kick:
			p.poll(ctx, gen)
		}
	}
}

func (p *Poller) poll(ctx context.Context, gen uint64) error {
	orders, err := p.fetch(ctx)

	snap, notify, applied := p.apply(gen, orders, err)
	if applied && notify != nil {
		notify(snap)
	}
	return err
}

func (p *Poller) apply(gen uint64, orders []model.Order, err error) (Snapshot, func(Snapshot), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return Snapshot{}, nil, false
	}

	prometheus.RecordBoardPoll(len(orders), err)
	if err != nil {
		p.snapshot.LastError = err.Error()
		p.logger.Warn("Board refresh failed, keeping last queue",
			zap.Int("orders", len(p.snapshot.Orders)),
			zap.Error(err))
	} else {
		if orders == nil {
			orders = []model.Order{}
		}
		p.snapshot = Snapshot{Orders: orders, UpdatedAt: time.Now()}
	}

	snap := p.snapshot
	snap.Orders = append([]model.Order(nil), p.snapshot.Orders...)
	return snap, p.notify, true
}
