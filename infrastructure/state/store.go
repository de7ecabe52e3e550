package state

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Preference is a single key/value workspace setting, e.g. the active
// connection id or the preferred output format.
type Preference struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string
	UpdatedAt time.Time
}

// HistoryEntry records one dispatched request for the `qualens history`
// view and the gateway's activity panel.
type HistoryEntry struct {
	ID        uint   `gorm:"primaryKey"`
	Method    string `gorm:"size:10"`
	Path      string `gorm:"size:512"`
	Status    int
	Outcome   string `gorm:"size:32"`
	Elapsed   time.Duration
	CreatedAt time.Time `gorm:"index"`
}

const activeConnectionKey = "active_connection"

// Store persists workspace state that must outlive a process: preferences
// and request history. It is UI-agnostic; both the CLI and the gateway sit
// on top of it.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Preference{}, &HistoryEntry{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// GetPreference returns the stored value, or fallback when unset.
func (s *Store) GetPreference(key, fallback string) (string, error) {
	var pref Preference
	err := s.db.First(&pref, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return pref.Value, nil
}

func (s *Store) SetPreference(key, value string) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Save(&pref).Error
}

// ActiveConnection returns the id of the connection CLI commands operate
// on by default, or "" when none is selected.
func (s *Store) ActiveConnection() (string, error) {
	return s.GetPreference(activeConnectionKey, "")
}

func (s *Store) SetActiveConnection(id string) error {
	return s.SetPreference(activeConnectionKey, id)
}

func (s *Store) AppendHistory(entry HistoryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return s.db.Create(&entry).Error
}

// RecentHistory returns up to limit entries, newest first.
func (s *Store) RecentHistory(limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []HistoryEntry
	err := s.db.Order("created_at desc, id desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// PruneHistory drops entries older than the retention window.
func (s *Store) PruneHistory(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res := s.db.Where("created_at < ?", cutoff).Delete(&HistoryEntry{})
	return res.RowsAffected, res.Error
}
