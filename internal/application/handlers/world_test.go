package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
	"github.com/ersonp/silkroad/internal/domain/services"
)

func TestWorldHandler_ResolveInstance(t *testing.T) {
	store := mocks.NewWorldStore()
	handler := NewWorldHandler(store, "", discardLogger())

	_, err := handler.ResolveInstance(t.Context(), 0)
	require.ErrorIs(t, err, ErrNoActiveInstance)

	inst, err := store.CreateInstance(t.Context(), entities.GameTypeSilkRoad, 0)
	require.NoError(t, err)

	id, err := handler.ResolveInstance(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, inst.ID, id)

	id, err = handler.ResolveInstance(t.Context(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
}

func TestWorldHandler_HandleSeed(t *testing.T) {
	store := mocks.NewWorldStore()
	inst, err := store.CreateInstance(t.Context(), entities.GameTypeSilkRoad, 0)
	require.NoError(t, err)
	handler := NewWorldHandler(store, "", discardLogger())

	result, err := handler.HandleSeed(t.Context(), inst.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Entities)
	assert.Equal(t, 5, result.Relationships)
	assert.Equal(t, 2, result.States)
	assert.Equal(t, 1, store.PersistCallCount)

	graph := store.Graphs[inst.ID]
	for _, e := range graph.Entities {
		assert.False(t, e.IsProvisional(), e.Name)
	}

	t.Run("second seed changes nothing", func(t *testing.T) {
		again, err := handler.HandleSeed(t.Context(), inst.ID)
		require.NoError(t, err)
		assert.Equal(t, services.SeedResult{}, *again)
		assert.Equal(t, 1, store.PersistCallCount)
	})

	t.Run("unknown instance", func(t *testing.T) {
		_, err := handler.HandleSeed(t.Context(), 404)
		require.ErrorIs(t, err, services.ErrInstanceNotFound)
	})
}

func TestWorldHandler_HandleStatus(t *testing.T) {
	store, id := seededStore(t)
	handler := NewWorldHandler(store, "", discardLogger())

	status, err := handler.HandleStatus(t.Context(), id)
	require.NoError(t, err)

	assert.Equal(t, id, status.Instance.ID)
	assert.Equal(t, 2, status.InTransit)

	require.Len(t, status.Merchants, 2)
	assert.Equal(t, entities.PlayerName, status.Merchants[0].Name)
	assert.InDelta(t, 1000, status.Merchants[0].Capital, 0.001)
	assert.InDelta(t, 0.8, status.Merchants[0].Reputation, 0.001)

	require.Len(t, status.Caravans, 2)
	assert.Equal(t, "SG-001", status.Caravans[0].Name)
	assert.Equal(t, entities.StatusInTransit, status.Caravans[0].Status)
	assert.Equal(t, "Silk", status.Caravans[0].Good)
	assert.Equal(t, 50, status.Caravans[0].Quantity)
	assert.Equal(t, "Samarkand -> ChangAn (High)", status.Caravans[0].Route)
	assert.Nil(t, status.Caravans[0].Payoff)

	require.Len(t, status.Markets, 2)
	assert.Contains(t, status.Markets[0].Demand, "Silk")
	assert.NotEmpty(t, status.Prices)
}

func TestWorldHandler_HandleStatus_Unreadable(t *testing.T) {
	store, id := seededStore(t)
	graph := store.Graphs[id]
	now := time.Now()
	graph.FindEntity(entities.EntityMerchant, entities.PlayerName).
		SetAttribute(entities.AttrCapital, json.RawMessage(`{"amount":1000}`), now)
	graph.FindEntity(entities.EntityCaravan, "SG-001").
		SetAttribute(entities.AttrGoods, json.RawMessage(`"fifty bales"`), now)

	status, err := NewWorldHandler(store, "", discardLogger()).HandleStatus(t.Context(), id)
	require.NoError(t, err)

	require.Len(t, status.Merchants, 2)
	assert.Equal(t, []string{string(entities.AttrCapital)}, status.Merchants[0].Unreadable)
	assert.Zero(t, status.Merchants[0].Capital)
	assert.Empty(t, status.Merchants[1].Unreadable)

	require.Len(t, status.Caravans, 2)
	assert.Equal(t, []string{string(entities.AttrGoods)}, status.Caravans[0].Unreadable)
	assert.Empty(t, status.Caravans[0].Good)
	assert.Equal(t, entities.StatusInTransit, status.Caravans[0].Status)
	assert.Empty(t, status.Caravans[1].Unreadable)
}

func TestWorldHandler_HandleHistory(t *testing.T) {
	store := mocks.NewWorldStore()
	handler := NewWorldHandler(store, "", discardLogger())

	for _, turnID := range []string{"a", "b", "c"} {
		require.NoError(t, store.LogTurn(t.Context(), &entities.TurnLogEntry{TurnID: turnID, InstanceID: 1}))
	}
	require.NoError(t, store.LogTurn(t.Context(), &entities.TurnLogEntry{TurnID: "other", InstanceID: 2}))

	turns, err := handler.HandleHistory(t.Context(), 1, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "c", turns[0].TurnID)
	assert.Equal(t, "b", turns[1].TurnID)

	turns, err = handler.HandleHistory(t.Context(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, turns, 3)
}

func TestWorldHandler_HandleListAndExport(t *testing.T) {
	store, id := seededStore(t)
	handler := NewWorldHandler(store, "", discardLogger())

	list, err := handler.HandleList(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	graph, err := handler.HandleExport(t.Context(), id)
	require.NoError(t, err)
	assert.Len(t, graph.Entities, 8)
	assert.Len(t, graph.Relationships, 5)
}
