package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/domain/world"
)

func newTurnHandler(store *mocks.WorldStore, rng *mocks.Random, spawn bool) *TurnHandler {
	engine := services.NewTurnEngine(store, &mocks.SnapshotWriter{}, rng, services.TurnOptions{Logger: discardLogger()})
	var spawner *services.CaravanSpawner
	if spawn {
		spawner = services.NewCaravanSpawner(rng, discardLogger())
	}
	return NewTurnHandler(engine, spawner, store, discardLogger())
}

func TestTurnHandler_HandleRun(t *testing.T) {
	store, id := seededStore(t)
	handler := newTurnHandler(store, mocks.NewRandom(), true)

	result, err := handler.HandleRun(t.Context(), id, 2)
	require.NoError(t, err)
	require.Len(t, result.Reports, 2)

	first := result.Reports[0]
	assert.Len(t, first.Outcomes, 2)
	assert.Empty(t, first.Skipped)
	assert.Equal(t, 0, first.InTransit)

	// Each turn finishes every caravan, so one caravan is spawned after each.
	assert.Len(t, result.Spawned, 2)
	assert.Len(t, result.Reports[1].Outcomes, 1)

	require.Len(t, store.Turns, 2)
	assert.Equal(t, first.TurnID, store.Turns[0].TurnID)
	assert.Equal(t, 2, store.Turns[0].Details["resolved"])

	graph := store.Graphs[id]
	assert.Equal(t, 1, world.CountInTransit(graph))
	assert.Len(t, graph.EntitiesOfType(entities.EntityCaravan), 4)
}

func TestTurnHandler_HandleRun_NoSpawner(t *testing.T) {
	store, id := seededStore(t)
	handler := newTurnHandler(store, mocks.NewRandom(), false)

	result, err := handler.HandleRun(t.Context(), id, 2)
	require.NoError(t, err)
	require.Len(t, result.Reports, 2)
	assert.Empty(t, result.Spawned)
	assert.Empty(t, result.Reports[1].Outcomes)
}

func TestTurnHandler_HandleRun_FatalError(t *testing.T) {
	store := mocks.NewWorldStore()
	handler := newTurnHandler(store, mocks.NewRandom(), true)

	result, err := handler.HandleRun(t.Context(), 404, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInstanceNotFound)
	assert.Empty(t, result.Reports)
	assert.Empty(t, store.Turns)
}

func TestTurnHandler_HandleRun_PersistError(t *testing.T) {
	store, id := seededStore(t)
	store.PersistErr = errors.New("disk full")
	handler := newTurnHandler(store, mocks.NewRandom(), true)

	_, err := handler.HandleRun(t.Context(), id, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, store.Turns)
}
