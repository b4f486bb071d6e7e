package storage

import (
	"context"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"firstlog/internal/observability"
)

// kvEntry is the single-table schema backing SQLiteStore.
type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLiteStore persists values in a local SQLite file, the on-device cache.
type SQLiteStore struct {
	db  *gorm.DB
	log *observability.StoreLogger
}

// NewSQLiteStore opens (or creates) the database at path and migrates the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{
		db:  db,
		log: observability.NewStoreLogger("sqlite"),
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		s.log.LogError(ctx, "get", key, err)
		observability.StoreErrors.WithLabelValues("sqlite", "get").Inc()
		return "", err
	}
	return entry.Value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	err := s.db.WithContext(ctx).Save(&kvEntry{Key: key, Value: value}).Error
	if err != nil {
		s.log.LogError(ctx, "set", key, err)
		observability.StoreErrors.WithLabelValues("sqlite", "set").Inc()
	}
	return err
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&kvEntry{}, "key = ?", key).Error
	if err != nil {
		s.log.LogError(ctx, "remove", key, err)
		observability.StoreErrors.WithLabelValues("sqlite", "remove").Inc()
	}
	return err
}
