package ports

import (
	"context"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

// WorldStore defines the interface for loading and persisting game graphs.
type WorldStore interface {
	// EnsureSchema creates the storage schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error

	// Instance operations

	// CreateInstance creates a new active game instance.
	CreateInstance(ctx context.Context, gameType string, userID int64) (*entities.GameInstance, error)

	// FindActiveInstance returns the most recent active instance of gameType, or nil.
	FindActiveInstance(ctx context.Context, gameType string) (*entities.GameInstance, error)

	// ListInstances lists all instances, newest first.
	ListInstances(ctx context.Context) ([]entities.GameInstance, error)

	// Graph operations

	// LoadInstance loads the full graph of an instance. It returns nil, nil
	// when the instance does not exist.
	LoadInstance(ctx context.Context, instanceID int64) (*entities.Graph, error)

	// Persist writes every entity, attribute, relationship and state of the
	// graph in one transaction. Provisional entities receive their real IDs.
	Persist(ctx context.Context, graph *entities.Graph) error

	// Turn log operations

	// LogTurn records a completed turn.
	LogTurn(ctx context.Context, entry *entities.TurnLogEntry) error

	// ListTurns returns the most recent turns of an instance, newest first.
	ListTurns(ctx context.Context, instanceID int64, limit int) ([]entities.TurnLogEntry, error)
}
