package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/foodiehub/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProvider stores session entries in the session_entries table.
type GormProvider struct {
	DB *gorm.DB
}

func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{DB: db}
}

func (p *GormProvider) Scope(sessionID string) Store {
	return &GormStore{db: p.DB, sessionID: sessionID}
}

// Purge removes every entry of sessions idle since before cutoff. A session
// with one fresh key keeps all of its keys.
func (p *GormProvider) Purge(cutoff time.Time, keep []string) (int64, error) {
	fresh := p.DB.Model(&models.SessionEntry{}).
		Select("session_id").
		Where("updated_at >= ?", cutoff)

	q := p.DB.Where("session_id NOT IN (?)", fresh)
	if len(keep) > 0 {
		q = q.Where("session_id NOT IN ?", keep)
	}
	res := q.Delete(&models.SessionEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

type GormStore struct {
	db        *gorm.DB
	sessionID string
}

func (s *GormStore) Get(key string) (string, bool, error) {
	var entry models.SessionEntry
	err := s.db.Where("session_id = ? AND entry_key = ?", s.sessionID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *GormStore) Set(key, value string) error {
	entry := models.SessionEntry{
		SessionID: s.sessionID,
		EntryKey:  key,
		Value:     value,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) Delete(key string) error {
	err := s.db.Where("session_id = ? AND entry_key = ?", s.sessionID, key).
		Delete(&models.SessionEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
