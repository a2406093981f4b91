package repository

import (
	"errors"
	"fmt"
	"strings"

	"tasklist/internal/model"
)

// ErrStorageFailure marks a write the underlying store rejected.
var ErrStorageFailure = errors.New("storage failure")

func storageFailure(op, key string, err error) error {
	return fmt.Errorf("%s %q: %w: %w", op, key, ErrStorageFailure, err)
}

func joinKeys(records []model.Record) string {
	keys := make([]string, 0, len(records))
	for _, rec := range records {
		keys = append(keys, rec.Name)
	}
	return strings.Join(keys, ",")
}
