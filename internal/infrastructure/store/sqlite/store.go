// Package sqlite persists the session store in an embedded SQLite database,
// the per-device default driver.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

// entry is one key-value row.
type entry struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     string `gorm:"column:value"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "session_entries" }

// Store implements ports.SessionStore over a single SQLite file.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the session database at path and runs the
// schema migration.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrStorageUnavailable, path, err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", domain.ErrStorageUnavailable, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := s.db.WithContext(ctx).First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	return e.Value, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	return nil
}

// SetMulti writes all pairs in one transaction.
func (s *Store) SetMulti(ctx context.Context, values map[string]string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for key, value := range values {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&entry{Key: key, Value: value, UpdatedAt: now}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: set multi: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Delete(&entry{}, "key IN ?", keys).Error; err != nil {
		return fmt.Errorf("%w: remove: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("DELETE FROM session_entries").Error; err != nil {
		return fmt.Errorf("%w: clear: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
