package storage

import (
	"context"

	"github.com/nsyszr/rcm/pkg/model"
)

// Interface is implemented by the storage
type Interface interface {
	Events() EventStore
	Plans() PlanStore

	// State reports the connection state of the backing store. It never
	// blocks on the network.
	State() State
	Close(ctx context.Context) error
}

// EventStore is responsible for managing the Event model
type EventStore interface {
	// FetchAll returns every event, newest first.
	FetchAll(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	// Create validates m, assigns ID and CreatedAt and persists it.
	Create(ctx context.Context, m *model.Event) error
	Delete(ctx context.Context, id string) error
}

// PlanStore is responsible for managing the Plan model
type PlanStore interface {
	// FetchAll returns every plan, newest first.
	FetchAll(ctx context.Context) ([]model.Plan, error)
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	// Create validates m, assigns ID and CreatedAt and persists it.
	Create(ctx context.Context, m *model.Plan) error
	Delete(ctx context.Context, id string) error
}
