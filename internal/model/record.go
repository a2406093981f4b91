package model

import "time"

// Names of the two persisted records.
const (
	RecordTasks      = "tasks"
	RecordCategories = "categories"
)

// Record is a single named value in the key-value store.
type Record struct {
	Name      string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}
