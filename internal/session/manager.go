package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anjanibarlapati/skyready/internal/cache"
	"github.com/anjanibarlapati/skyready/pkg/currency"
)

// CityLister is the backend slice used only at session bootstrap.
type CityLister interface {
	Cities(ctx context.Context) ([]string, error)
}

// CountryResolver resolves the caller's country for currency detection.
type CountryResolver interface {
	CountryCode(ctx context.Context) (string, error)
}

// Manager owns the in-memory session registry and bootstraps new
// sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	backend    SearchBackend
	cities     CityLister
	geo        CountryResolver
	cache      cache.Cache
	afterFetch func(Leg)
	now        func() time.Time
	log        *slog.Logger
}

type ManagerConfig struct {
	Backend    SearchBackend
	Cities     CityLister
	Geo        CountryResolver
	Cache      cache.Cache
	AfterFetch func(Leg)
	Now        func() time.Time
	Logger     *slog.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoOpCache()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Manager{
		sessions:   make(map[string]*Session),
		backend:    cfg.Backend,
		cities:     cfg.Cities,
		geo:        cfg.Geo,
		cache:      cfg.Cache,
		afterFetch: cfg.AfterFetch,
		now:        cfg.Now,
		log:        cfg.Logger,
	}
}

// Create bootstraps a session: the city list and the geolocated
// currency are fetched concurrently, and both degrade silently: an
// empty city list or the INR default is not an error.
func (m *Manager) Create(ctx context.Context) *Session {
	var cities []string
	currencyCode := "INR"

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if m.cities == nil {
			return nil
		}
		list, err := m.cities.Cities(gCtx)
		if err != nil {
			m.log.Warn("city list fetch failed", "err", err)
			return nil
		}
		cities = list
		return nil
	})

	g.Go(func() error {
		if m.geo == nil {
			return nil
		}
		country, err := m.geo.CountryCode(gCtx)
		if err != nil {
			m.log.Warn("geolocation failed", "err", err)
			return nil
		}
		currencyCode = currency.Detect(country)
		return nil
	})

	_ = g.Wait()

	s := New(newSessionID(), cities, currencyCode, Config{
		Backend:    m.backend,
		Cache:      m.cache,
		AfterFetch: m.afterFetch,
		Now:        m.now,
		Logger:     m.log,
	})

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	return s
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
