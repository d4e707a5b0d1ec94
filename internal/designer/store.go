// SPDX-License-Identifier: MIT

// Package designer holds the editing state of one theme designer session:
// the selected base theme, the user's customization and the two UI flags,
// plus the derived theme, CSS and JSON.
//
// All actions are synchronous. Derivations are recomputed on read when
// their inputs changed, and subscribers are told about every change.
package designer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thatcatcamp/themer/internal/themes"
)

// DefaultShareMessageDuration is how long the "link copied" message stays up.
const DefaultShareMessageDuration = 2 * time.Second

// Scheduler runs f after d and returns a function that cancels it.
type Scheduler func(d time.Duration, f func()) (cancel func())

// AfterFunc is the Scheduler backed by time.AfterFunc
func AfterFunc(d time.Duration, f func()) func() {
	timer := time.AfterFunc(d, f)
	return func() { timer.Stop() }
}

// Clipboard receives share links. Writes are best effort.
type Clipboard interface {
	WriteAll(text string) error
}

// Options configure a new Store. Only Catalog is required.
type Options struct {
	Catalog *themes.Catalog

	// DefaultBaseThemeID is used when InitialBaseThemeID is empty or unknown.
	DefaultBaseThemeID string

	// InitialBaseThemeID and InitialCustomization are applied once, in
	// that order, before the first read.
	InitialBaseThemeID   string
	InitialCustomization *themes.Partial

	// ShareCode, when it decodes, wins over both initial values. A code
	// that does not decode is logged and ignored.
	ShareCode string

	ShareMessageDuration time.Duration
	Scheduler            Scheduler
	Clipboard            Clipboard
	Logger               zerolog.Logger
}

// Snapshot is a copy of the session state. Version grows by one with
// every change, so subscribers can drop notifications that arrive late.
type Snapshot struct {
	Version             uint64               `json:"version"`
	BaseThemeID         string               `json:"baseThemeId"`
	BaseThemeName       string               `json:"baseThemeName"`
	Customization       themes.Customization `json:"customization"`
	ShareMessageVisible bool                 `json:"shareThemeMessageVisible"`
	ExportDrawerVisible bool                 `json:"exportDrawerVisible"`
	BackIsDark          bool                 `json:"backIsDark"`
}

type derivationKey struct {
	baseThemeID   string
	customization themes.Customization
}

// Store is the state of one designer session. It is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	catalog       *themes.Catalog
	baseThemeID   string
	customization themes.Customization

	shareMessageVisible bool
	exportDrawerVisible bool

	shareDuration time.Duration
	schedule      Scheduler
	cancelHide    func()
	clipboard     Clipboard
	log           zerolog.Logger

	memoValid bool
	memoKey   derivationKey
	memoTheme themes.Theme
	memoCSS   string
	memoJSON  string

	version uint64

	nextSubscriber int
	subscribers    map[int]func(Snapshot)
}

// New creates a session store. The customization starts from the defaults
// of the initial base theme, then InitialCustomization is merged in.
func New(opts Options) *Store {
	if opts.Catalog == nil {
		opts.Catalog = themes.DefaultCatalog()
	}
	if opts.ShareMessageDuration <= 0 {
		opts.ShareMessageDuration = DefaultShareMessageDuration
	}
	if opts.Scheduler == nil {
		opts.Scheduler = AfterFunc
	}

	s := &Store{
		catalog:       opts.Catalog,
		shareDuration: opts.ShareMessageDuration,
		schedule:      opts.Scheduler,
		clipboard:     opts.Clipboard,
		log:           opts.Logger,
		subscribers:   make(map[int]func(Snapshot)),
	}

	s.baseThemeID = firstKnown(opts.Catalog, opts.InitialBaseThemeID, opts.DefaultBaseThemeID, "light")
	if s.baseThemeID == "" {
		s.baseThemeID = opts.Catalog.ListBaseThemeIDs()[0]
	}
	s.customization = themes.DefaultCustomization(opts.Catalog.GetBaseTheme(s.baseThemeID))
	if opts.InitialCustomization != nil {
		s.customization = s.customization.Apply(*opts.InitialCustomization)
	}

	if opts.ShareCode != "" {
		id, c, err := themes.DecodeShare(opts.ShareCode, opts.Catalog)
		if err != nil {
			s.log.Warn().Err(err).Msg("ignoring share code")
		} else {
			s.baseThemeID = id
			s.customization = c
		}
	}
	return s
}

func firstKnown(catalog *themes.Catalog, ids ...string) string {
	for _, id := range ids {
		if id != "" && catalog.Has(id) {
			return id
		}
	}
	return ""
}

// Catalog returns the catalog the store resolves base themes from
func (s *Store) Catalog() *themes.Catalog {
	return s.catalog
}

// BaseThemeID returns the selected base theme
func (s *Store) BaseThemeID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseThemeID
}

// Customization returns the current customization
func (s *Store) Customization() themes.Customization {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customization
}

// Snapshot returns a copy of the full session state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version:             s.version,
		BaseThemeID:         s.baseThemeID,
		BaseThemeName:       s.catalog.GetBaseThemeName(s.baseThemeID),
		Customization:       s.customization,
		ShareMessageVisible: s.shareMessageVisible,
		ExportDrawerVisible: s.exportDrawerVisible,
		BackIsDark:          themes.IsDark(s.customization.ColorBack),
	}
}

// SetBaseThemeID records a new base theme. Unknown ids are ignored and
// reported with false. The customization is left alone; callers usually
// follow with ResetTheme.
func (s *Store) SetBaseThemeID(id string) bool {
	if !s.catalog.Has(id) {
		s.log.Debug().Str("base_theme", id).Msg("ignoring unknown base theme")
		return false
	}
	s.update(func() { s.baseThemeID = id })
	return true
}

// SelectBaseTheme switches to a base theme and resets the customization to
// its defaults. Selecting the current base theme changes nothing.
func (s *Store) SelectBaseTheme(id string) bool {
	if !s.catalog.Has(id) {
		return false
	}
	if s.BaseThemeID() == id {
		return true
	}
	s.update(func() {
		s.baseThemeID = id
		s.resetLocked()
	})
	return true
}

// Customize merges the set fields of p into the customization. Values are
// not validated here.
func (s *Store) Customize(p themes.Partial) {
	s.update(func() { s.customization = s.customization.Apply(p) })
}

// InvertTheme swaps the front and back colors and toggles Inverted.
func (s *Store) InvertTheme() {
	s.update(func() {
		c := s.customization
		c.ColorFront, c.ColorBack = c.ColorBack, c.ColorFront
		c.Inverted = !c.Inverted
		s.customization = c
	})
}

// ResetTheme drops every override and goes back to the base theme defaults.
func (s *Store) ResetTheme() {
	s.update(s.resetLocked)
}

func (s *Store) resetLocked() {
	s.customization = themes.DefaultCustomization(s.catalog.GetBaseTheme(s.baseThemeID))
}

// SetShareMessageVisible sets the "link copied" flag
func (s *Store) SetShareMessageVisible(v bool) {
	s.update(func() { s.shareMessageVisible = v })
}

// SetExportDrawerVisible sets the export drawer flag
func (s *Store) SetExportDrawerVisible(v bool) {
	s.update(func() { s.exportDrawerVisible = v })
}

// OpenExportDrawer shows the export drawer unless it is already open.
func (s *Store) OpenExportDrawer() {
	s.mu.Lock()
	open := s.exportDrawerVisible
	s.mu.Unlock()
	if !open {
		s.SetExportDrawerVisible(true)
	}
}

// ShareCode encodes the current base theme and customization
func (s *Store) ShareCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return themes.EncodeShare(s.baseThemeID, s.customization)
}

// Share builds the share link for pageURL, hands it to the clipboard and
// shows the share message for the configured duration. A second Share
// restarts the countdown.
func (s *Store) Share(pageURL string) string {
	link := themes.ShareURL(pageURL, s.ShareCode())

	if s.clipboard != nil {
		if err := s.clipboard.WriteAll(link); err != nil {
			s.log.Debug().Err(err).Msg("clipboard write failed")
		}
	}

	s.SetShareMessageVisible(true)

	s.mu.Lock()
	if s.cancelHide != nil {
		s.cancelHide()
	}
	s.cancelHide = s.schedule(s.shareDuration, func() {
		s.SetShareMessageVisible(false)
	})
	s.mu.Unlock()
	return link
}

// Theme returns the resolved theme for the current state
func (s *Store) Theme() themes.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	return s.memoTheme.Clone()
}

// CSS returns the custom property declarations for the current theme
func (s *Store) CSS() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	return s.memoCSS
}

// JSON returns the current theme as a JSON object
func (s *Store) JSON() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	return s.memoJSON
}

func (s *Store) deriveLocked() {
	key := derivationKey{baseThemeID: s.baseThemeID, customization: s.customization}
	if s.memoValid && s.memoKey == key {
		return
	}
	s.memoTheme = themes.Compose(s.customization, s.catalog.GetBaseTheme(s.baseThemeID))
	s.memoCSS = themes.GenerateCSS(s.memoTheme)
	s.memoJSON = themes.GenerateJSON(s.memoTheme)
	s.memoKey = key
	s.memoValid = true
}

// Subscribe registers fn to be called with a snapshot after every change.
// fn runs outside the store lock and may call back into the store.
// Concurrent changes can reach fn out of order; compare Snapshot.Version.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubscriber
	s.nextSubscriber++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close stops a pending share message timer.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelHide != nil {
		s.cancelHide()
		s.cancelHide = nil
	}
}

func (s *Store) update(mutate func()) {
	s.mu.Lock()
	mutate()
	s.version++
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
