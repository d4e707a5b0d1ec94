// SPDX-License-Identifier: MIT
package sessions

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thatcatcamp/themer/internal/models"
	"github.com/thatcatcamp/themer/internal/themes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.Session{}))
	return database
}

func newTestManager(t *testing.T, database *gorm.DB) (*Manager, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(Config{
		DefaultBaseThemeID: "light",
		TTL:                time.Hour,
		DB:                 database,
		Logger:             zerolog.Nop(),
		Now:                clock.Now,
	})
	t.Cleanup(m.Close)
	return m, clock
}

func TestCreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, nil)
	ctx := context.Background()

	s, err := m.Create(ctx, StartOptions{BaseThemeID: "dark"})
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, "dark", s.Store.BaseThemeID())

	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())
}

func TestCreateFromShare(t *testing.T) {
	m, _ := newTestManager(t, nil)

	c := themes.DefaultCustomization(themes.DefaultCatalog().GetBaseTheme("dark"))
	c.ColorPrimary = "#ff0000"
	s, err := m.Create(context.Background(), StartOptions{Share: themes.EncodeShare("dark", c)})
	require.NoError(t, err)

	assert.Equal(t, "dark", s.Store.BaseThemeID())
	assert.Equal(t, c, s.Store.Customization())
}

func TestCreateWithBadShareUsesDefaults(t *testing.T) {
	m, _ := newTestManager(t, nil)

	s, err := m.Create(context.Background(), StartOptions{Share: "garbage"})
	require.NoError(t, err)

	light := themes.DefaultCatalog().GetBaseTheme("light")
	assert.Equal(t, "light", s.Store.BaseThemeID())
	assert.Equal(t, themes.DefaultCustomization(light), s.Store.Customization())
}

func TestGetUnknown(t *testing.T) {
	m, _ := newTestManager(t, setupTestDB(t))

	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangesArePersisted(t *testing.T) {
	database := setupTestDB(t)
	m, _ := newTestManager(t, database)
	ctx := context.Background()

	s, err := m.Create(ctx, StartOptions{})
	require.NoError(t, err)

	var record models.Session
	require.NoError(t, database.First(&record, "id = ?", s.ID).Error)
	assert.Equal(t, s.Store.ShareCode(), record.Share)

	primary := "#00ff00"
	s.Store.Customize(themes.Partial{ColorPrimary: &primary})

	require.NoError(t, database.First(&record, "id = ?", s.ID).Error)
	assert.Equal(t, s.Store.ShareCode(), record.Share)

	_, c, err := themes.DecodeShare(record.Share, m.Catalog())
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", c.ColorPrimary)
}

func TestPersistDropsOlderSnapshot(t *testing.T) {
	database := setupTestDB(t)
	m, _ := newTestManager(t, database)
	ctx := context.Background()

	s, err := m.Create(ctx, StartOptions{})
	require.NoError(t, err)

	red, green := "#ff0000", "#00ff00"
	s.Store.Customize(themes.Partial{ColorPrimary: &red})
	older := s.Store.Snapshot()
	s.Store.Customize(themes.Partial{ColorPrimary: &green})
	newer := s.Store.Snapshot()
	require.Greater(t, newer.Version, older.Version)

	// A late notification of the older state must not overwrite the newer one
	require.NoError(t, m.persist(ctx, s, older))

	var record models.Session
	require.NoError(t, database.First(&record, "id = ?", s.ID).Error)
	assert.Equal(t, s.Store.ShareCode(), record.Share)

	_, c, err := themes.DecodeShare(record.Share, m.Catalog())
	require.NoError(t, err)
	assert.Equal(t, green, c.ColorPrimary)
}

func TestConcurrentChangesPersistLatest(t *testing.T) {
	database := setupTestDB(t)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	m, _ := newTestManager(t, database)
	ctx := context.Background()

	for trial := 0; trial < 20; trial++ {
		s, err := m.Create(ctx, StartOptions{})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				color := fmt.Sprintf("#%02x%02x00", trial, i)
				s.Store.Customize(themes.Partial{ColorPrimary: &color})
			}(i)
		}
		wg.Wait()

		var record models.Session
		require.NoError(t, database.First(&record, "id = ?", s.ID).Error)
		assert.Equal(t, s.Store.ShareCode(), record.Share, "trial %d", trial)
	}
}

func TestRestoreFromDatabase(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	first, _ := newTestManager(t, database)
	s, err := first.Create(ctx, StartOptions{BaseThemeID: "dark"})
	require.NoError(t, err)
	s.Store.InvertTheme()
	want := s.Store.Customization()

	// A fresh manager on the same database, as after a restart
	second, _ := newTestManager(t, database)
	restored, err := second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "dark", restored.Store.BaseThemeID())
	assert.Equal(t, want, restored.Store.Customization())

	again, err := second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, restored, again)
}

func TestRestoreSkipsExpired(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	first, clock := newTestManager(t, database)
	s, err := first.Create(ctx, StartOptions{})
	require.NoError(t, err)

	second := NewManager(Config{
		TTL:    time.Hour,
		DB:     database,
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return clock.Now().Add(2 * time.Hour) },
	})
	defer second.Close()

	_, err = second.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	database := setupTestDB(t)
	m, clock := newTestManager(t, database)
	ctx := context.Background()

	idle, err := m.Create(ctx, StartOptions{})
	require.NoError(t, err)
	clock.Advance(40 * time.Minute)

	active, err := m.Create(ctx, StartOptions{})
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)

	_, err = m.Get(ctx, active.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep(ctx))
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	database.Model(&models.Session{}).Where("id = ?", idle.ID).Count(&count)
	assert.Zero(t, count)

	_, err = m.Get(ctx, active.ID)
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	database := setupTestDB(t)
	m, _ := newTestManager(t, database)
	ctx := context.Background()

	s, err := m.Create(ctx, StartOptions{})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.Delete(ctx, s.ID), ErrNotFound)
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewManager(Config{SweepInterval: time.Millisecond, Logger: zerolog.Nop()})
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
