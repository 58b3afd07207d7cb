// Package cache manages the lifecycle of index snapshots behind a freshness
// policy: Empty -> Building -> Fresh -> Stale -> Expired, distinguished
// purely by elapsed time since the last build.
//
// Fresh snapshots are served as-is. Stale snapshots are served immediately
// while a single-flight background rebuild runs. Expired snapshots block the
// calling query until a synchronous rebuild completes. Builds always produce
// a brand-new immutable snapshot and the reference is swapped atomically, so
// concurrent readers see either the old fully-consistent snapshot or the new
// one, never a partial build. A failed build leaves the previous snapshot
// untouched.
package cache

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nishantgupta83/mindful-living/internal/search/index"
	"github.com/nishantgupta83/mindful-living/pkg/config"
	"github.com/nishantgupta83/mindful-living/pkg/errors"
	"github.com/nishantgupta83/mindful-living/pkg/metrics"
)

// State is the freshness state of the cached index.
type State int

const (
	StateEmpty State = iota
	StateBuilding
	StateFresh
	StateStale
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateBuilding:
		return "building"
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TimestampStore persists the builtAt timestamp across process restarts.
// A zero time from Load means no build has been recorded; that maps to the
// Empty state, not an error.
type TimestampStore interface {
	Load(ctx context.Context) (time.Time, error)
	Save(ctx context.Context, t time.Time) error
}

// entry pairs a snapshot with the time the manager installed it.
type entry struct {
	snap    *index.Snapshot
	builtAt time.Time
}

// Manager owns the current cache entry and triggers rebuilds according to
// the freshness policy. Index builds are the only writers; they run either
// synchronously inside a singleflight group or as a single guarded
// background task.
type Manager struct {
	source         index.Source
	store          TimestampStore
	freshFor       time.Duration
	expireAfter    time.Duration
	refreshTimeout time.Duration

	current    atomic.Pointer[entry]
	group      singleflight.Group
	refreshing atomic.Bool
	building   atomic.Bool
	persisted  time.Time // builtAt recovered at startup, before the first build

	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithMetrics enables Prometheus instrumentation of builds.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mx }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Manager over the given document source. store may be nil,
// in which case the builtAt timestamp is not persisted.
func New(source index.Source, store TimestampStore, cfg config.CacheConfig, opts ...Option) (*Manager, error) {
	if source == nil {
		return nil, errors.New(errors.ErrInvalidInput, 0, "document source is required")
	}
	m := &Manager{
		source:         source,
		store:          store,
		freshFor:       cfg.FreshFor,
		expireAfter:    cfg.ExpireAfter,
		refreshTimeout: cfg.RefreshTimeout,
		now:            time.Now,
		logger:         slog.Default().With("component", "index-cache"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Restore loads the persisted builtAt timestamp so the reported freshness
// state survives process restarts. Call once at startup. A missing or
// unreadable value is not an error; the cache simply starts Empty.
func (m *Manager) Restore(ctx context.Context) {
	if m.store == nil {
		return
	}
	t, err := m.store.Load(ctx)
	if err != nil {
		m.logger.Warn("could not restore builtAt timestamp", "error", err)
		return
	}
	if t.IsZero() {
		return
	}
	m.persisted = t
	m.logger.Info("restored builtAt timestamp",
		"built_at", t,
		"state", m.stateFor(m.now().Sub(t)).String(),
	)
}

// Current returns the live snapshot without triggering any build, or nil if
// none has been installed yet.
func (m *Manager) Current() *index.Snapshot {
	if e := m.current.Load(); e != nil {
		return e.snap
	}
	return nil
}

// BuiltAt returns the time the live snapshot was installed. Before the first
// build it falls back to the restored persisted timestamp; zero means Empty.
func (m *Manager) BuiltAt() time.Time {
	if e := m.current.Load(); e != nil {
		return e.builtAt
	}
	return m.persisted
}

// State reports the current freshness state.
func (m *Manager) State() State {
	if m.building.Load() {
		return StateBuilding
	}
	e := m.current.Load()
	if e == nil {
		if m.persisted.IsZero() {
			return StateEmpty
		}
		return m.stateFor(m.now().Sub(m.persisted))
	}
	return m.stateFor(m.now().Sub(e.builtAt))
}

func (m *Manager) stateFor(age time.Duration) State {
	switch {
	case age < m.freshFor:
		return StateFresh
	case age < m.expireAfter:
		return StateStale
	default:
		return StateExpired
	}
}

// Snapshot returns a snapshot that is at most Stale, triggering builds per
// the freshness policy: a synchronous, blocking build when the cache is
// Empty or Expired, and a non-blocking background rebuild when Stale.
func (m *Manager) Snapshot(ctx context.Context) (*index.Snapshot, error) {
	e := m.current.Load()
	if e == nil {
		return m.rebuild(ctx, "cold")
	}
	switch m.stateFor(m.now().Sub(e.builtAt)) {
	case StateExpired:
		return m.rebuild(ctx, "expired")
	case StateStale:
		m.refreshAsync()
		return e.snap, nil
	default:
		return e.snap, nil
	}
}

// Invalidate discards the current cache entry so the next access performs a
// synchronous rebuild against the live document source.
func (m *Manager) Invalidate() {
	m.current.Store(nil)
	m.logger.Info("cache entry invalidated")
}

// rebuild runs a synchronous build inside a singleflight group so concurrent
// cold or expired queries share one build.
func (m *Manager) rebuild(ctx context.Context, trigger string) (*index.Snapshot, error) {
	v, err, _ := m.group.Do("rebuild", func() (interface{}, error) {
		// Another flight may have installed a usable snapshot already.
		if e := m.current.Load(); e != nil && m.stateFor(m.now().Sub(e.builtAt)) != StateExpired {
			return e.snap, nil
		}
		return m.build(ctx, trigger)
	})
	if err != nil {
		return nil, err
	}
	return v.(*index.Snapshot), nil
}

// refreshAsync triggers one background rebuild per staleness window. A
// second trigger while a refresh is in flight is a no-op. A failed refresh
// is logged and swallowed; the stale snapshot keeps serving and the next
// stale query may retry.
func (m *Manager) refreshAsync() {
	if !m.refreshing.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer m.refreshing.Store(false)
		ctx := context.Background()
		if m.refreshTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.refreshTimeout)
			defer cancel()
		}
		if _, err := m.build(ctx, "stale"); err != nil {
			m.logger.Warn("background refresh failed, continuing to serve stale index", "error", err)
		}
	}()
}

// build produces a new snapshot and atomically installs it. On failure the
// previous entry is left untouched and the error is returned to the caller
// that triggered the build.
func (m *Manager) build(ctx context.Context, trigger string) (*index.Snapshot, error) {
	m.building.Store(true)
	defer m.building.Store(false)

	start := m.now()
	snap, err := index.Build(ctx, m.source)
	if err != nil {
		if m.metrics != nil {
			m.metrics.IndexBuildsTotal.WithLabelValues(trigger, "error").Inc()
		}
		m.logger.Error("index build failed", "trigger", trigger, "error", err)
		return nil, err
	}

	builtAt := m.now()
	m.current.Store(&entry{snap: snap, builtAt: builtAt})
	m.persist(ctx, builtAt)

	if m.metrics != nil {
		m.metrics.IndexBuildsTotal.WithLabelValues(trigger, "ok").Inc()
		m.metrics.IndexBuildDuration.Observe(builtAt.Sub(start).Seconds())
		m.metrics.IndexDocuments.Set(float64(snap.DocCount()))
		m.metrics.IndexTerms.Set(float64(snap.TermCount()))
	}
	m.logger.Info("index snapshot installed",
		"trigger", trigger,
		"documents", snap.DocCount(),
		"terms", snap.TermCount(),
	)
	return snap, nil
}

// persist saves builtAt through the timestamp store. Persistence failures
// are logged, never surfaced: the in-memory snapshot is already live.
func (m *Manager) persist(ctx context.Context, builtAt time.Time) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(ctx, builtAt); err != nil {
		m.logger.Warn("could not persist builtAt timestamp", "error", err)
	}
}
