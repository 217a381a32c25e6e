package repository

import (
	"context"
	"fmt"

	"personal-planner/internal/model"
)

// Store drivers accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// TaskStore loads and saves the whole task collection. Order is preserved.
type TaskStore interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
}

// Store is a TaskStore holding an underlying resource.
type Store interface {
	TaskStore
	Close() error
}

// Open returns the store implementation for driver rooted at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONFileStore(path), nil
	case DriverSQLite:
		db, err := NewDB(path)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db), nil
	case DriverBolt:
		return OpenBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
