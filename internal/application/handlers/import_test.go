package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
	"github.com/ersonp/silkroad/internal/domain/services"
)

func newImportHandler(t *testing.T) (*ImportHandler, *mocks.WorldStore, int64) {
	t.Helper()
	store := mocks.NewWorldStore()
	inst, err := store.CreateInstance(t.Context(), entities.GameTypeSilkRoad, 0)
	require.NoError(t, err)
	return NewImportHandler(services.NewImportService(store)), store, inst.ID
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestImportHandler_Handle_JSONFile(t *testing.T) {
	handler, store, id := newImportHandler(t)
	path := writeFile(t, "world.json", `[
		{"kind": "entity", "entity_type": "Merchant", "name": "Player"},
		{"kind": "attribute", "name": "Player", "key": "Capital", "value": {"value": 500}}
	]`)

	result, err := handler.Handle(t.Context(), id, path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)

	player := store.Graphs[id].FindEntity(entities.EntityMerchant, "Player")
	require.NotNil(t, player)
	assert.JSONEq(t, `{"value":500}`, string(player.Attribute(entities.AttrCapital).Value))
}

func TestImportHandler_Handle_CSVFile(t *testing.T) {
	handler, store, id := newImportHandler(t)
	path := writeFile(t, "world.csv", "kind,entity_type,name\nentity,Market,Samarkand\n")

	result, err := handler.Handle(t.Context(), id, path, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.NotNil(t, store.Graphs[id].FindEntity(entities.EntityMarket, "Samarkand"))
}

func TestImportHandler_Handle_DryRun(t *testing.T) {
	handler, store, id := newImportHandler(t)
	path := writeFile(t, "world.json", `[{"kind": "entity", "entity_type": "Tribe", "name": "Xiongnu"}]`)

	result, err := handler.Handle(t.Context(), id, path, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, store.PersistCallCount)
	assert.Empty(t, store.Graphs[id].Entities)
}

func TestImportHandler_Handle_Errors(t *testing.T) {
	handler, _, id := newImportHandler(t)

	t.Run("unsupported format", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), id, writeFile(t, "world.txt", "x"), ImportOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := handler.Handle(t.Context(), id, filepath.Join(t.TempDir(), "nope.json"), ImportOptions{})
		require.Error(t, err)
	})

	t.Run("empty file", func(t *testing.T) {
		result, err := handler.Handle(t.Context(), id, writeFile(t, "empty.json", `[]`), ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Imported)
	})

	t.Run("explicit format overrides extension", func(t *testing.T) {
		path := writeFile(t, "world.data", `[{"kind": "entity", "entity_type": "Ruler", "name": "Khan"}]`)
		result, err := handler.Handle(t.Context(), id, path, ImportOptions{Format: "json"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	})
}
