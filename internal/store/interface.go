package store

import (
	"context"

	"buddyfarm/internal/store/model"
)

// UnitOfWork defines a transaction scope.
type UnitOfWork interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback rolls back the transaction.
	Rollback() error

	// Settings returns the settings repository within this transaction.
	Settings() SettingsRepository
	// Changes returns the settings change log repository within this transaction.
	Changes() ChangeRepository
}

// Store is the entry point for database access.
type Store interface {
	// Begin starts a new UnitOfWork (transaction).
	Begin(ctx context.Context) (UnitOfWork, error)
	// Close closes the store connection.
	Close() error
}

// SettingsRepository handles the flat settings object stored per namespaced key.
type SettingsRepository interface {
	// Find returns nil, nil when key has never been saved.
	Find(ctx context.Context, key string) (*model.SettingsModel, error)
	Save(ctx context.Context, rec *model.SettingsModel) error
}

// ChangeRepository records individual field changes for a settings key.
type ChangeRepository interface {
	Insert(ctx context.Context, changes []model.SettingsChangeModel) error
	ListRecent(ctx context.Context, key string, limit int) ([]model.SettingsChangeModel, error)
}
