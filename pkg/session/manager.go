package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/feed"
	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/Sternrassler/hn-reader/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// lockStripes is the number of mutexes session updates are spread over.
const lockStripes = 64

// StoryLister loads the ranked story list. *feed.Service implements it.
type StoryLister interface {
	Load(ctx context.Context) ([]hn.Story, error)
}

// Config holds session manager configuration.
type Config struct {
	// TTL is the idle lifetime of a session; each LoadMore extends it
	TTL time.Duration

	// InitialPageSize is the number of stories visible after Create
	InitialPageSize int

	// PageSize is the number of stories each LoadMore reveals
	PageSize int
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		TTL:             DefaultTTL,
		InitialPageSize: pagination.DefaultInitialPageSize,
		PageSize:        pagination.DefaultPageSize,
	}
}

// Manager creates sessions and moves their "load more" window.
type Manager struct {
	store  Store
	lister StoryLister
	config Config
	now    func() time.Time
	logger zerolog.Logger

	locks [lockStripes]sync.Mutex
}

// NewManager creates a session manager. Zero config values fall back to
// DefaultConfig.
func NewManager(store Store, lister StoryLister, config Config) *Manager {
	if store == nil {
		panic("session store cannot be nil")
	}
	if lister == nil {
		panic("story lister cannot be nil")
	}

	def := DefaultConfig()
	if config.TTL <= 0 {
		config.TTL = def.TTL
	}
	if config.InitialPageSize <= 0 {
		config.InitialPageSize = def.InitialPageSize
	}
	if config.PageSize <= 0 {
		config.PageSize = def.PageSize
	}

	return &Manager{
		store:  store,
		lister: lister,
		config: config,
		now:    time.Now,
		logger: logging.NewLogger("session"),
	}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Create fetches a fresh story list and stores a new session over it.
// A listing failure still yields a session: empty list, Notice set.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	stories, err := m.lister.Load(ctx)

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Stories:   stories,
		View:      pagination.NewViewState(m.config.InitialPageSize),
		CreatedAt: now,
		ExpiresAt: now.Add(m.config.TTL),
	}
	if s.Stories == nil {
		s.Stories = []hn.Story{}
	}

	if err != nil {
		s.Notice = feed.ErrorNotice(err)
		SessionsCreated.WithLabelValues("listing_error").Inc()
	} else {
		SessionsCreated.WithLabelValues("ok").Inc()
	}

	if err := m.store.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	m.logger.Info().
		Str("session", s.ID).
		Int("stories", len(s.Stories)).
		Bool("notice", s.Notice != "").
		Msg("Session created")

	return s, nil
}

// Get returns the session or ErrNotFound.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// LoadMore reveals the next page of the session and extends its expiry.
// When nothing is left to show the window is unchanged.
//
// Calls for the same session are serialized within one Manager, so
// concurrent requests each advance the window once. Managers in separate
// processes sharing a Redis store do not coordinate; the last write wins.
func (m *Manager) LoadMore(ctx context.Context, id string) (*Session, error) {
	mu := m.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.Page().CanLoadMore {
		s.View = pagination.Advance(s.View, m.config.PageSize)
	}
	s.ExpiresAt = m.now().Add(m.config.TTL)

	if err := m.store.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	m.logger.Debug().
		Str("session", s.ID).
		Int("displayed", s.View.DisplayedCount).
		Msg("Session advanced")

	return s, nil
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockStripes]
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}
