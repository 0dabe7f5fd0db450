package handlers

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// seededStore returns a mock store holding one seeded instance.
func seededStore(t *testing.T) (*mocks.WorldStore, int64) {
	t.Helper()
	store := mocks.NewWorldStore()
	inst, err := store.CreateInstance(t.Context(), entities.GameTypeSilkRoad, 0)
	require.NoError(t, err)

	_, err = NewWorldHandler(store, "", discardLogger()).HandleSeed(t.Context(), inst.ID)
	require.NoError(t, err)
	return store, inst.ID
}
