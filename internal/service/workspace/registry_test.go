package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mining-storefront/internal/gateway"
	xerrors "mining-storefront/internal/pkg/errors"
	"mining-storefront/internal/tokenstore"
)

type backend struct {
	meCalls       atomic.Int32
	categoryCalls atomic.Int32
}

func newRegistry(t *testing.T, store tokenstore.Backend, cfg Config) (*Registry, *backend) {
	t.Helper()
	b := &backend{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/auth/me":
			b.meCalls.Add(1)
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Invalid token"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": "u1"}})
		case "/api/categories":
			b.categoryCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"categories": []map[string]any{{"_id": "c1", "name": "Drills"}}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	client := gateway.NewClient(gateway.WithBaseURL(server.URL))
	return NewRegistry(client, store, nil, cfg, zap.NewNop()), b
}

func TestOpen_IssuesIDForUnknownCookie(t *testing.T) {
	r, b := newRegistry(t, tokenstore.NewMemory(), Config{})

	for _, id := range []string{"", "not-a-ulid"} {
		ws, issued := r.Open(context.Background(), id)
		assert.True(t, issued)
		_, err := ulid.ParseStrict(ws.ID)
		assert.NoError(t, err)
	}
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, int32(2), b.categoryCalls.Load())
	assert.Zero(t, b.meCalls.Load(), "no token, no profile load")
}

func TestOpen_ReusesWorkspace(t *testing.T) {
	r, b := newRegistry(t, tokenstore.NewMemory(), Config{})

	first, _ := r.Open(context.Background(), "")
	again, issued := r.Open(context.Background(), first.ID)

	assert.False(t, issued)
	assert.Same(t, first, again)
	assert.Equal(t, int32(1), b.categoryCalls.Load(), "initialised once")
	assert.Len(t, first.Catalog.Snapshot().Categories, 1)
}

func TestOpen_ConcurrentFirstContactInitialisesOnce(t *testing.T) {
	r, b := newRegistry(t, tokenstore.NewMemory(), Config{})
	id := ulid.Make().String()

	var wg sync.WaitGroup
	seen := make([]*Workspace, 8)
	for i := range seen {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seen[i], _ = r.Open(context.Background(), id)
		}(i)
	}
	wg.Wait()

	for _, ws := range seen {
		assert.Same(t, seen[0], ws)
	}
	assert.Equal(t, int32(1), b.categoryCalls.Load())
}

func TestOpen_RestoresPersistedToken(t *testing.T) {
	store := tokenstore.NewMemory()
	id := ulid.Make().String()
	require.NoError(t, tokenstore.NewScoped(store, id).Save(context.Background(), "tok"))
	r, b := newRegistry(t, store, Config{})

	ws, issued := r.Open(context.Background(), id)

	assert.False(t, issued)
	s := ws.Session.Snapshot()
	assert.Equal(t, "tok", s.Token)
	require.NotNil(t, s.User)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, int32(1), b.meCalls.Load())
}

func TestOpen_RejectedTokenIsCleared(t *testing.T) {
	store := tokenstore.NewMemory()
	id := ulid.Make().String()
	require.NoError(t, tokenstore.NewScoped(store, id).Save(context.Background(), "revoked"))
	r, _ := newRegistry(t, store, Config{})

	ws, _ := r.Open(context.Background(), id)

	assert.Empty(t, ws.Session.Token())
	persisted, err := tokenstore.NewScoped(store, id).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestGet(t *testing.T) {
	r, _ := newRegistry(t, tokenstore.NewMemory(), Config{})

	_, err := r.Get(ulid.Make().String())
	assert.ErrorIs(t, err, xerrors.ErrWorkspaceNotFound)

	ws, _ := r.Open(context.Background(), "")
	got, err := r.Get(ws.ID)
	require.NoError(t, err)
	assert.Same(t, ws, got)
}

func TestSweep_EvictsIdleOnly(t *testing.T) {
	store := tokenstore.NewMemory()
	r, _ := newRegistry(t, store, Config{IdleTTL: time.Minute})
	now := time.Now()
	r.now = func() time.Time { return now }

	idle, _ := r.Open(context.Background(), "")
	now = now.Add(45 * time.Second)
	active, _ := r.Open(context.Background(), "")
	now = now.Add(30 * time.Second)

	var evicted []string
	r.OnEvict(func(id string) { evicted = append(evicted, id) })

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, []string{idle.ID}, evicted)
	_, err := r.Get(idle.ID)
	assert.ErrorIs(t, err, xerrors.ErrWorkspaceNotFound)
	_, err = r.Get(active.ID)
	assert.NoError(t, err)
}

func TestRemove_KeepsPersistedToken(t *testing.T) {
	store := tokenstore.NewMemory()
	r, _ := newRegistry(t, store, Config{})
	ws, _ := r.Open(context.Background(), "")
	require.NoError(t, tokenstore.NewScoped(store, ws.ID).Save(context.Background(), "tok"))

	r.Remove(ws.ID)
	r.Remove(ws.ID)

	assert.Zero(t, r.Len())
	assert.Equal(t, 1, store.Len())
}

func TestRun_StopsWithContext(t *testing.T) {
	r, _ := newRegistry(t, tokenstore.NewMemory(), Config{IdleTTL: time.Nanosecond, SweepTick: time.Millisecond})
	r.Open(context.Background(), "")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
