// Package sqlite provides the optional durable audit sink. The in-memory
// trail is the source of truth for the dashboard; this store only mirrors
// entries for offline inspection across restarts.
package sqlite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"livedesk/internal/audit"
	"livedesk/internal/store/model"
)

type Store struct {
	db *gorm.DB
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.IngestLogModel{}); err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(2)
		sqlDB.SetMaxIdleConns(2)
	}
	return &Store{db: db}, nil
}

// Write implements audit.Sink.
func (s *Store) Write(e audit.Entry) error {
	rec := model.IngestLogModel{
		EntryID:   e.ID,
		Timestamp: e.At.UnixMilli(),
		Addr:      e.Addr,
		OK:        e.OK,
		Reason:    e.Reason,
		Preview:   e.Preview,
		Detail:    encodeDetail(e.Detail),
	}
	return s.db.Create(&rec).Error
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func encodeDetail(detail map[string]any) datatypes.JSON {
	if len(detail) == 0 {
		return nil
	}
	data, err := json.Marshal(detail)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
