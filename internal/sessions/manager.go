// SPDX-License-Identifier: MIT

// Package sessions keeps the live designer sessions of the HTTP service.
// Each session's state is a designer.Store in memory; its share string is
// written through to the database so a session survives a restart.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/designer"
	"github.com/thatcatcamp/themer/internal/models"
	"github.com/thatcatcamp/themer/internal/themes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

const (
	DefaultTTL           = 24 * time.Hour
	DefaultSweepInterval = 5 * time.Minute

	// expiry in the database is refreshed at most this often on reads
	touchInterval = time.Minute
)

// Config configures a Manager
type Config struct {
	Catalog              *themes.Catalog
	DefaultBaseThemeID   string
	TTL                  time.Duration
	SweepInterval        time.Duration
	ShareMessageDuration time.Duration

	// DB is optional; without it sessions live in memory only.
	DB     *gorm.DB
	Logger zerolog.Logger

	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// StartOptions are the initialization inputs of a new session
type StartOptions struct {
	BaseThemeID   string          `json:"baseThemeId,omitempty" form:"baseThemeId"`
	Customization *themes.Partial `json:"customization,omitempty"`
	Share         string          `json:"share,omitempty" form:"share"`
}

// Session is a live designer session
type Session struct {
	ID    string
	Store *designer.Store

	lastSeen    time.Time
	lastTouched time.Time
	unsubscribe func()

	// persistMu orders database writes; held across the write
	persistMu sync.Mutex
	persisted bool
	version   uint64
	lastShare string
}

// Manager owns the live sessions
type Manager struct {
	cfg Config
	log zerolog.Logger
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(cfg Config) *Manager {
	if cfg.Catalog == nil {
		cfg.Catalog = themes.DefaultCatalog()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		cfg:      cfg,
		log:      cfg.Logger,
		now:      now,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the catalog sessions are created from
func (m *Manager) Catalog() *themes.Catalog {
	return m.cfg.Catalog
}

// TTL returns how long an idle session is kept
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

// Create starts a new session
func (m *Manager) Create(ctx context.Context, opts StartOptions) (*Session, error) {
	id := uuid.NewString()
	store := m.newStore(id, designer.Options{
		InitialBaseThemeID:   opts.BaseThemeID,
		InitialCustomization: opts.Customization,
		ShareCode:            opts.Share,
	})

	s, _ := m.add(id, store, "")
	if err := m.persist(ctx, s, store.Snapshot()); err != nil {
		m.remove(id)
		return nil, err
	}

	m.log.Info().Str("session", id).Str("base_theme", store.BaseThemeID()).Msg("session started")
	return s, nil
}

// Get returns a live session, restoring it from the database when it is
// not in memory.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	now := m.now()

	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = now
		touch := now.Sub(s.lastTouched) >= touchInterval
		if touch {
			s.lastTouched = now
		}
		m.mu.Unlock()
		if touch {
			m.touch(ctx, id, now)
		}
		return s, nil
	}
	m.mu.Unlock()

	return m.restore(ctx, id)
}

func (m *Manager) restore(ctx context.Context, id string) (*Session, error) {
	if m.cfg.DB == nil {
		return nil, ErrNotFound
	}

	var record models.Session
	err := m.cfg.DB.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if record.Expired(m.now()) {
		return nil, ErrNotFound
	}

	store := m.newStore(id, designer.Options{
		InitialBaseThemeID: record.BaseThemeID,
		ShareCode:          record.Share,
	})

	s, restored := m.add(id, store, record.Share)
	if !restored {
		// Another request restored it first
		store.Close()
		return s, nil
	}

	m.log.Info().Str("session", id).Msg("session restored")
	return s, nil
}

// Delete ends a session
func (m *Manager) Delete(ctx context.Context, id string) error {
	found := m.remove(id)

	if m.cfg.DB != nil {
		res := m.cfg.DB.WithContext(ctx).Delete(&models.Session{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete session: %w", res.Error)
		}
		found = found || res.RowsAffected > 0
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// Len returns the number of sessions held in memory
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped from memory.
func (m *Manager) Sweep(ctx context.Context) int {
	now := m.now()
	cutoff := now.Add(-m.cfg.TTL)

	var expired []*Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}

	if m.cfg.DB != nil {
		if err := m.cfg.DB.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{}).Error; err != nil {
			m.log.Warn().Err(err).Msg("failed to delete expired sessions")
		}
	}

	if len(expired) > 0 {
		m.log.Debug().Int("count", len(expired)).Msg("expired sessions swept")
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is cancelled
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Close drops every in-memory session. Persisted sessions are kept.
func (m *Manager) Close() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}

func (m *Manager) newStore(id string, opts designer.Options) *designer.Store {
	opts.Catalog = m.cfg.Catalog
	opts.DefaultBaseThemeID = m.cfg.DefaultBaseThemeID
	opts.ShareMessageDuration = m.cfg.ShareMessageDuration
	opts.Logger = m.log.With().Str("session", id).Logger()
	return designer.New(opts)
}

// add registers a store under id. When id is already live the existing
// session is returned with false.
func (m *Manager) add(id string, store *designer.Store, lastShare string) (*Session, bool) {
	now := m.now()
	s := &Session{ID: id, Store: store, lastSeen: now, lastTouched: now}
	if lastShare != "" {
		s.persisted = true
		s.version = store.Snapshot().Version
		s.lastShare = lastShare
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		return existing, false
	}
	m.sessions[id] = s
	m.mu.Unlock()

	unsubscribe := store.Subscribe(func(snap designer.Snapshot) {
		if err := m.persist(context.Background(), s, snap); err != nil {
			m.log.Warn().Err(err).Str("session", id).Msg("failed to persist session")
		}
	})
	m.mu.Lock()
	s.unsubscribe = unsubscribe
	m.mu.Unlock()
	return s, true
}

func (m *Manager) remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.close()
	}
	return ok
}

// persist writes the share string of snap when it changed since the last
// write. Snapshots older than the last written one are dropped.
func (m *Manager) persist(ctx context.Context, s *Session, snap designer.Snapshot) error {
	if m.cfg.DB == nil {
		return nil
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.persisted && snap.Version < s.version {
		return nil
	}
	code := themes.EncodeShare(snap.BaseThemeID, snap.Customization)
	if s.persisted && s.lastShare == code {
		s.version = snap.Version
		return nil
	}

	record := models.Session{
		ID:          s.ID,
		BaseThemeID: snap.BaseThemeID,
		Share:       code,
		ExpiresAt:   m.now().Add(m.cfg.TTL),
	}
	err := m.cfg.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_theme_id", "share", "expires_at", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.persisted = true
	s.version = snap.Version
	s.lastShare = code
	return nil
}

func (m *Manager) touch(ctx context.Context, id string, now time.Time) {
	if m.cfg.DB == nil {
		return
	}
	err := m.cfg.DB.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Update("expires_at", now.Add(m.cfg.TTL)).Error
	if err != nil {
		m.log.Warn().Err(err).Str("session", id).Msg("failed to refresh session expiry")
	}
}

func (s *Session) close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Store.Close()
}
