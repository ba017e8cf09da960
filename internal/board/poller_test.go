package board

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPollerFetchesImmediatelyOnStart(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return []model.Order{{ID: 1, Status: model.StatusReceived}}, nil
	}, zap.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return len(p.Snapshot().Orders) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, p.Running())
}

func TestPollerRefreshKicksLoop(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return nil, nil
	}, zap.NewNop())

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	p.Refresh()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestPollerTicks(t *testing.T) {
	var calls atomic.Int32
	p := NewPoller(10*time.Millisecond, func(ctx context.Context) ([]model.Order, error) {
		calls.Add(1)
		return nil, nil
	}, zap.NewNop())

	p.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()
	<-p.Done()
	assert.False(t, p.Running())
}

func TestFailedFetchKeepsPreviousQueue(t *testing.T) {
	responses := []struct {
		orders []model.Order
		err    error
	}{
		{orders: []model.Order{{ID: 1, Status: model.StatusReceived}, {ID: 2, Status: model.StatusReady}}},
		{orders: []model.Order{}, err: padoca.ErrTransport},
	}
	i := 0
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		r := responses[i]
		i++
		return r.orders, r.err
	}, zap.NewNop())

	snap, err := p.RefreshNow(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Orders, 2)
	updated := snap.UpdatedAt

	snap, err = p.RefreshNow(context.Background())
	assert.ErrorIs(t, err, padoca.ErrTransport)
	assert.Len(t, snap.Orders, 2)
	assert.Equal(t, updated, snap.UpdatedAt)
	assert.NotEmpty(t, snap.LastError)
}

func TestFetchFinishingAfterStopIsDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		once.Do(func() { close(entered) })
		<-release
		return []model.Order{{ID: 9, Status: model.StatusReceived}}, nil
	}, zap.NewNop())

	p.Start(context.Background())
	<-entered
	p.Stop()
	close(release)

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("poll loop did not exit")
	}
	assert.Empty(t, p.Snapshot().Orders)
}

func TestSnapshotIsACopy(t *testing.T) {
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		return []model.Order{{ID: 1, Status: model.StatusReceived}}, nil
	}, zap.NewNop())
	_, err := p.RefreshNow(context.Background())
	require.NoError(t, err)

	snap := p.Snapshot()
	snap.Orders[0].ID = 42
	assert.Equal(t, uint(1), p.Snapshot().Orders[0].ID)
}

type fakeFetcher struct {
	mu    sync.Mutex
	auths []string
}

func (f *fakeFetcher) FetchQueue(ctx context.Context, auth padoca.Auth) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auths = append(f.auths, auth.BearerToken())
	if auth.BearerToken() == "" {
		return []model.Order{}, errors.New("no token")
	}
	return []model.Order{{ID: 1, Status: model.StatusPreparing}}, nil
}

func TestRegistryOpenClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetcher := &fakeFetcher{}
	r := NewRegistry(ctx, time.Hour, fetcher, zap.NewNop())

	p := r.Open("s1", padoca.Token("tok"))
	assert.Same(t, p, r.Open("s1", padoca.Token("tok")))
	assert.Equal(t, 1, r.Len())

	require.Eventually(t, func() bool { return len(p.Snapshot().Orders) == 1 }, time.Second, 5*time.Millisecond)

	got, ok := r.Get("s1")
	require.True(t, ok)
	assert.Same(t, p, got)

	r.Open("s2", padoca.Token("other"))
	r.Close("s1")
	assert.Equal(t, 1, r.Len())
	assert.False(t, p.Running())
	_, ok = r.Get("s1")
	assert.False(t, ok)

	r.Close("missing")
	r.CloseAll()
	assert.Equal(t, 0, r.Len())
}

func TestOnUpdateSeesEveryAppliedFetch(t *testing.T) {
	fail := false
	p := NewPoller(time.Hour, func(ctx context.Context) ([]model.Order, error) {
		if fail {
			return []model.Order{}, padoca.ErrTransport
		}
		return []model.Order{{ID: 5, Status: model.StatusPreparing}}, nil
	}, zap.NewNop())

	var seen []Snapshot
	p.OnUpdate(func(s Snapshot) { seen = append(seen, s) })

	_, _ = p.RefreshNow(context.Background())
	fail = true
	_, _ = p.RefreshNow(context.Background())

	require.Len(t, seen, 2)
	assert.Len(t, seen[0].Orders, 1)
	assert.Empty(t, seen[0].LastError)
	assert.Len(t, seen[1].Orders, 1)
	assert.NotEmpty(t, seen[1].LastError)
}
