package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/itfview/internal/logging"
	"github.com/aretw0/itfview/pkg/domain"
	"github.com/aretw0/itfview/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates view preferences, ensuring safe concurrent updates.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.PreferenceStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	defaults domain.DisplayOptions
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithDefaults sets the options of views that have none stored.
func WithDefaults(opts domain.DisplayOptions) Option {
	return func(m *Manager) {
		m.defaults = opts
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager backed by store.
func NewManager(store ports.PreferenceStore, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		locks:    make(map[string]*lockEntry),
		lockTTL:  DefaultLockTTL,
		defaults: domain.DefaultDisplayOptions(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(viewID) after unlocking.
func (m *Manager) acquire(viewID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[viewID]
	if !exists {
		entry = &lockEntry{}
		m.locks[viewID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(viewID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[viewID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, viewID)
	}
}

// Options returns the stored options of a view, or the manager defaults when
// none are stored.
func (m *Manager) Options(ctx context.Context, viewID string) (domain.DisplayOptions, error) {
	opts, err := m.store.Load(ctx, viewID)
	if errors.Is(err, domain.ErrViewNotFound) {
		return m.Defaults(), nil
	}
	if err != nil {
		return domain.DisplayOptions{}, fmt.Errorf("failed to load view %s: %w", viewID, err)
	}
	return opts, nil
}

// Defaults returns a copy of the options given to views with none stored.
func (m *Manager) Defaults() domain.DisplayOptions {
	d := m.defaults
	if d.SelectedVariables != nil {
		d.SelectedVariables = slices.Clone(d.SelectedVariables)
	}
	return d
}

// Handle applies cmd to the view and persists the result.
// Unknown commands return domain.ErrUnknownCommand and oversized or
// malformed input returns domain.ErrInvalidInput; both change nothing.
func (m *Manager) Handle(ctx context.Context, viewID string, cmd Command) (domain.DisplayOptions, error) {
	if err := SanitizeViewID(viewID); err != nil {
		return domain.DisplayOptions{}, err
	}
	cmd, err := sanitizeCommand(cmd)
	if err != nil {
		m.logger.Warn("Command rejected", "view_id", viewID, "command", cmd.Name, "err", err)
		return domain.DisplayOptions{}, err
	}

	var out domain.DisplayOptions
	err = m.WithLock(ctx, viewID, func(ctx context.Context) error {
		current, err := m.Options(ctx, viewID)
		if err != nil {
			return err
		}
		next, err := apply(current, cmd, m.Defaults())
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, viewID, next); err != nil {
			return fmt.Errorf("failed to save view %s: %w", viewID, err)
		}
		out = next
		return nil
	})
	if err != nil {
		return domain.DisplayOptions{}, err
	}

	m.logger.Debug("view command handled",
		"view_id", viewID,
		"command", cmd.Name,
		"mode", out.ViewMode,
		"show_initial", out.ShowInitialState,
		"selected", len(out.SelectedVariables),
	)
	return out, nil
}

// Save replaces the options of a view, e.g. with defaults from configuration.
func (m *Manager) Save(ctx context.Context, viewID string, opts domain.DisplayOptions) error {
	return m.WithLock(ctx, viewID, func(ctx context.Context) error {
		return m.store.Save(ctx, viewID, opts)
	})
}

// Delete forgets the options of a view.
func (m *Manager) Delete(ctx context.Context, viewID string) error {
	return m.WithLock(ctx, viewID, func(ctx context.Context) error {
		return m.store.Delete(ctx, viewID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes fn while holding the lock for the view.
func (m *Manager) WithLock(ctx context.Context, viewID string, fn func(context.Context) error) error {
	entry := m.acquire(viewID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(viewID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, viewID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"view_id", viewID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
