// internal/service/workspace/registry.go
package workspace

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"mining-storefront/internal/gateway"
	xerrors "mining-storefront/internal/pkg/errors"
	"mining-storefront/internal/pkg/jwt"
	"mining-storefront/internal/service/catalog"
	"mining-storefront/internal/service/session"
	"mining-storefront/internal/tokenstore"
)

var (
	workspacesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_workspaces_active",
			Help: "Number of browser workspaces held in memory",
		},
	)

	workspacesEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_workspaces_evicted_total",
			Help: "Total number of workspaces evicted after idling",
		},
	)
)

// Workspace is the state of one browser: its session and its catalog view.
type Workspace struct {
	ID      string
	Session *session.Manager
	Catalog *catalog.Manager

	created  time.Time
	lastSeen atomic.Int64
	ready    sync.Once
}

// LastSeen returns when the workspace was last used.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

func (w *Workspace) touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// Config holds registry settings.
type Config struct {
	PageSize  int
	IdleTTL   time.Duration
	SweepTick time.Duration
}

// Registry creates, finds and evicts workspaces.
type Registry struct {
	client    *gateway.Client
	tokens    tokenstore.Backend
	inspector *jwt.Inspector
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	items   map[string]*Workspace
	onEvict []func(id string)
}

// NewRegistry creates an empty registry.
func NewRegistry(client *gateway.Client, tokens tokenstore.Backend, inspector *jwt.Inspector, cfg Config, logger *zap.Logger) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepTick <= 0 {
		cfg.SweepTick = time.Minute
	}
	return &Registry{
		client:    client,
		tokens:    tokens,
		inspector: inspector,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
		items:     make(map[string]*Workspace),
	}
}

// Open returns the workspace for id, creating it when it is unknown. An id
// that is not a ULID is replaced by a fresh one. A workspace recreated under
// a known id picks its persisted token back up. The boolean reports whether
// the id changed.
func (r *Registry) Open(ctx context.Context, id string) (*Workspace, bool) {
	issued := false
	if _, err := ulid.ParseStrict(id); err != nil {
		id = ulid.Make().String()
		issued = true
	}

	r.mu.Lock()
	ws, ok := r.items[id]
	if !ok {
		ws = r.newWorkspace(id)
		r.items[id] = ws
		workspacesActive.Inc()
	}
	ws.touch(r.now())
	r.mu.Unlock()

	ws.ready.Do(func() {
		r.initialize(ctx, ws)
	})
	return ws, issued
}

// Get returns an existing workspace.
func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.RLock()
	ws, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, xerrors.ErrWorkspaceNotFound
	}
	ws.touch(r.now())
	return ws, nil
}

// Remove drops a workspace. Its persisted token is kept.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; ok {
		delete(r.items, id)
		workspacesActive.Dec()
	}
}

// OnEvict registers fn to run for every workspace the sweep evicts.
func (r *Registry) OnEvict(fn func(id string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = append(r.onEvict, fn)
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sweep evicts workspaces idle for longer than the TTL and returns how many
// went.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	var evicted []string
	for id, ws := range r.items {
		if ws.LastSeen().Before(cutoff) {
			delete(r.items, id)
			evicted = append(evicted, id)
		}
	}
	remaining := len(r.items)
	hooks := r.onEvict
	r.mu.Unlock()

	if len(evicted) == 0 {
		return 0
	}
	workspacesActive.Sub(float64(len(evicted)))
	workspacesEvicted.Add(float64(len(evicted)))
	r.logger.Info("evicted idle workspaces", zap.Int("count", len(evicted)), zap.Int("remaining", remaining))
	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return len(evicted)
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SweepTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) newWorkspace(id string) *Workspace {
	logger := r.logger.With(zap.String("workspace_id", id))
	ws := &Workspace{
		ID: id,
		Session: session.NewManager(
			r.client.Auth,
			tokenstore.NewScoped(r.tokens, id),
			r.inspector,
			logger.Named("session"),
		),
		Catalog: catalog.NewManager(
			r.client.Products,
			r.client.Categories,
			r.cfg.PageSize,
			logger.Named("catalog"),
		),
		created: r.now(),
	}
	return ws
}

// initialize restores the session and loads categories. Failures are logged;
// the workspace is usable either way.
func (r *Registry) initialize(ctx context.Context, ws *Workspace) {
	ctx = context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := ws.Session.Init(ctx); err != nil {
			r.logger.Debug("session restore failed", zap.String("workspace_id", ws.ID), zap.Error(err))
		}
	}()
	go func() {
		defer wg.Done()
		if err := ws.Catalog.Init(ctx); err != nil {
			r.logger.Debug("category load failed", zap.String("workspace_id", ws.ID), zap.Error(err))
		}
	}()
	wg.Wait()
}
