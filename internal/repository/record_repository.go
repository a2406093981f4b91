package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tasklist/internal/model"
)

// RecordRepository keeps named records in a SQLite table.
type RecordRepository struct {
	db *gorm.DB
}

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Load returns the stored value for key. found is false when the key was never written.
func (r *RecordRepository) Load(ctx context.Context, key string) (string, bool, error) {
	var record model.Record
	err := r.db.WithContext(ctx).Where("name = ?", key).First(&record).Error
	switch {
	case err == nil:
		return record.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("load record %q: %w", key, err)
	}
}

// Save overwrites the record for key.
func (r *RecordRepository) Save(ctx context.Context, key, value string) error {
	if err := upsert(r.db.WithContext(ctx), key, value); err != nil {
		return storageFailure("save record", key, err)
	}
	return nil
}

// SaveAll overwrites several records inside a single transaction.
func (r *RecordRepository) SaveAll(ctx context.Context, records ...model.Record) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := upsert(tx, rec.Name, rec.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageFailure("save records", joinKeys(records), err)
	}
	return nil
}

func (r *RecordRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func upsert(db *gorm.DB, key, value string) error {
	record := model.Record{Name: key, Value: value}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
}
