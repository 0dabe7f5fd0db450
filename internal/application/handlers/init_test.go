package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
)

func TestInitHandler_Handle(t *testing.T) {
	t.Run("creates instance when none active", func(t *testing.T) {
		store := mocks.NewWorldStore()
		handler := NewInitHandler(store)

		result, err := handler.Handle(t.Context(), entities.GameTypeSilkRoad)
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, entities.GameTypeSilkRoad, result.Instance.GameType)
		assert.Len(t, store.Graphs, 1)
	})

	t.Run("reuses active instance", func(t *testing.T) {
		store := mocks.NewWorldStore()
		handler := NewInitHandler(store)

		first, err := handler.Handle(t.Context(), entities.GameTypeSilkRoad)
		require.NoError(t, err)
		second, err := handler.Handle(t.Context(), entities.GameTypeSilkRoad)
		require.NoError(t, err)

		assert.False(t, second.Created)
		assert.Equal(t, first.Instance.ID, second.Instance.ID)
		assert.Len(t, store.Graphs, 1)
	})

	t.Run("store error", func(t *testing.T) {
		store := mocks.NewWorldStore()
		store.Err = errors.New("read-only filesystem")

		_, err := NewInitHandler(store).Handle(t.Context(), entities.GameTypeSilkRoad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read-only filesystem")
	})
}
