package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

// WorldStore is an in-memory implementation of ports.WorldStore.
// Graphs are cloned on the way in and out so callers cannot mutate
// stored state without calling Persist.
type WorldStore struct {
	Graphs map[int64]*entities.Graph
	Turns  []entities.TurnLogEntry
	Err    error

	// PersistErr is returned by Persist only, leaving loads working.
	PersistErr error

	LoadCallCount    int
	PersistCallCount int

	nextInstanceID int64
	nextEntityID   int64
}

// NewWorldStore creates a new mock WorldStore.
func NewWorldStore() *WorldStore {
	return &WorldStore{
		Graphs: make(map[int64]*entities.Graph),
	}
}

// Put stores a graph directly, assigning IDs to provisional entities.
func (m *WorldStore) Put(graph *entities.Graph) {
	if graph.Instance.ID > m.nextInstanceID {
		m.nextInstanceID = graph.Instance.ID
	}
	m.assignIDs(graph)
	m.Graphs[graph.Instance.ID] = graph.Clone()
}

// EnsureSchema is a no-op.
func (m *WorldStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *WorldStore) Close() error {
	return nil
}

// CreateInstance creates a new active instance with an empty graph.
func (m *WorldStore) CreateInstance(_ context.Context, gameType string, userID int64) (*entities.GameInstance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.nextInstanceID++
	now := time.Now()
	instance := entities.GameInstance{
		ID:          m.nextInstanceID,
		UserID:      userID,
		GameType:    gameType,
		IsActive:    true,
		CreatedAt:   now,
		LastUpdated: now,
	}
	m.Graphs[instance.ID] = entities.NewGraph(instance)
	return &instance, nil
}

// FindActiveInstance returns the newest active instance of gameType.
func (m *WorldStore) FindActiveInstance(_ context.Context, gameType string) (*entities.GameInstance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var found *entities.GameInstance
	for _, g := range m.Graphs {
		if g.Instance.GameType != gameType || !g.Instance.IsActive {
			continue
		}
		if found == nil || g.Instance.ID > found.ID {
			instance := g.Instance
			found = &instance
		}
	}
	return found, nil
}

// ListInstances lists all instances, newest first.
func (m *WorldStore) ListInstances(_ context.Context) ([]entities.GameInstance, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.GameInstance, 0, len(m.Graphs))
	for _, g := range m.Graphs {
		result = append(result, g.Instance)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// LoadInstance returns a copy of the stored graph, or nil when unknown.
func (m *WorldStore) LoadInstance(_ context.Context, instanceID int64) (*entities.Graph, error) {
	m.LoadCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	g, ok := m.Graphs[instanceID]
	if !ok {
		return nil, nil
	}
	return g.Clone(), nil
}

// Persist stores a copy of the graph.
func (m *WorldStore) Persist(_ context.Context, graph *entities.Graph) error {
	m.PersistCallCount++
	if m.Err != nil {
		return m.Err
	}
	if m.PersistErr != nil {
		return m.PersistErr
	}
	m.assignIDs(graph)
	m.Graphs[graph.Instance.ID] = graph.Clone()
	return nil
}

// LogTurn records a turn entry.
func (m *WorldStore) LogTurn(_ context.Context, entry *entities.TurnLogEntry) error {
	if m.Err != nil {
		return m.Err
	}
	entry.ID = int64(len(m.Turns) + 1)
	m.Turns = append(m.Turns, *entry)
	return nil
}

// ListTurns returns turns of an instance, newest first.
func (m *WorldStore) ListTurns(_ context.Context, instanceID int64, limit int) ([]entities.TurnLogEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.TurnLogEntry
	for i := len(m.Turns) - 1; i >= 0; i-- {
		if m.Turns[i].InstanceID != instanceID {
			continue
		}
		result = append(result, m.Turns[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *WorldStore) assignIDs(graph *entities.Graph) {
	ids := make(map[int64]int64)
	for _, e := range graph.Entities {
		if e.ID > m.nextEntityID {
			m.nextEntityID = e.ID
		}
	}
	for _, e := range graph.Entities {
		if e.IsProvisional() {
			m.nextEntityID++
			ids[e.ID] = m.nextEntityID
		}
	}
	graph.RemapEntityIDs(ids)
}
