package mocks

import (
	"context"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
)

// SnapshotCall records one WriteSnapshot invocation.
type SnapshotCall struct {
	InstanceID int64
	Phase      ports.SnapshotPhase
	Graph      *entities.Graph
}

// SnapshotWriter is a mock implementation of ports.SnapshotWriter.
type SnapshotWriter struct {
	Calls []SnapshotCall
	Err   error
}

// WriteSnapshot records the call and returns Err. The graph is cloned so
// later mutation does not alter what was recorded.
func (m *SnapshotWriter) WriteSnapshot(_ context.Context, instanceID int64, phase ports.SnapshotPhase, graph *entities.Graph) error {
	m.Calls = append(m.Calls, SnapshotCall{InstanceID: instanceID, Phase: phase, Graph: graph.Clone()})
	return m.Err
}
