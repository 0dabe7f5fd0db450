package ports

import (
	"context"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

// SnapshotPhase identifies when during a turn a snapshot was taken.
type SnapshotPhase string

const (
	SnapshotStart SnapshotPhase = "start"
	SnapshotEnd   SnapshotPhase = "end"
)

// SnapshotWriter records point-in-time copies of an instance graph.
type SnapshotWriter interface {
	// WriteSnapshot writes the graph for the given phase.
	WriteSnapshot(ctx context.Context, instanceID int64, phase SnapshotPhase, graph *entities.Graph) error
}
