package models

import "time"

// SessionEntry is one persisted key of a storefront session (cart, coupons,
// totals snapshot).
type SessionEntry struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_key"`
	EntryKey  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_key"`
	Value     string    `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
