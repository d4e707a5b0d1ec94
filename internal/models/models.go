// SPDX-License-Identifier: MIT
package models

import (
	"time"
)

// Session is the persisted form of a designer session. The whole editing
// state lives in Share, the same string a share link carries.
type Session struct {
	ID          string    `gorm:"primaryKey;size:36"`
	BaseThemeID string    `gorm:"size:64;not null"`
	Share       string    `gorm:"type:text;not null"`
	ExpiresAt   time.Time `gorm:"index;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides for consistent naming
func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
