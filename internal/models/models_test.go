// SPDX-License-Identifier: MIT
package models

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Session{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func TestCreateSession(t *testing.T) {
	db := setupTestDB(t)

	session := Session{
		ID:          "3f1c2a8e-0000-4000-8000-000000000001",
		BaseThemeID: "light",
		Share:       "eyJ2IjoxfQ",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var found Session
	if err := db.First(&found, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if found.Share != session.Share {
		t.Errorf("Expected share %q, got %q", session.Share, found.Share)
	}
	if found.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set on create")
	}
}

func TestSessionIDIsUnique(t *testing.T) {
	db := setupTestDB(t)

	first := Session{ID: "dup", BaseThemeID: "light", Share: "a", ExpiresAt: time.Now()}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	second := Session{ID: "dup", BaseThemeID: "dark", Share: "b", ExpiresAt: time.Now()}
	if err := db.Create(&second).Error; err == nil {
		t.Error("Expected duplicate session id to fail")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now}

	if !s.Expired(now) {
		t.Error("Session should be expired at its expiry time")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Error("Session should not be expired before its expiry time")
	}
}
