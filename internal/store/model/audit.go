package model

import "gorm.io/datatypes"

// IngestLogModel maps to the 'ingest_log' table.
type IngestLogModel struct {
	ID        int64          `gorm:"column:id;primaryKey"`
	EntryID   string         `gorm:"column:entry_id;index"`
	Timestamp int64          `gorm:"column:timestamp;index"`
	Addr      string         `gorm:"column:addr"`
	OK        bool           `gorm:"column:ok"`
	Reason    string         `gorm:"column:reason"`
	Preview   string         `gorm:"column:preview"`
	Detail    datatypes.JSON `gorm:"column:detail"`
}

func (IngestLogModel) TableName() string { return "ingest_log" }
