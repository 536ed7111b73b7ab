package bootstrap

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Storage is the shared infrastructure handed to seeders and service providers.
// DB is nil when the application runs on file-backed storage only.
type Storage struct {
	DB *sqlx.DB
}

// Seeder prepares reference data or on-disk layout before services start.
type Seeder interface {
	Seed(ctx context.Context, storage Storage) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, storage Storage) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, storage Storage) error {
	return f(ctx, storage)
}

// ServiceProvider wires application services of type T on top of storage.
type ServiceProvider[T any] interface {
	Provide(ctx context.Context, storage Storage) (T, error)
}

// ServiceProviderFunc adapts a function to the ServiceProvider interface.
type ServiceProviderFunc[T any] func(ctx context.Context, storage Storage) (T, error)

// Provide executes the underlying function.
func (f ServiceProviderFunc[T]) Provide(ctx context.Context, storage Storage) (T, error) {
	return f(ctx, storage)
}

// Modules groups optional bootstrapping hooks for seeding and service initialization.
type Modules[T any] struct {
	Seeders  []Seeder
	Services ServiceProvider[T]
}
