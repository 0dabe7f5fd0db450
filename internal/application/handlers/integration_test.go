package handlers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/domain/world"
	"github.com/ersonp/silkroad/internal/infrastructure/config"
	"github.com/ersonp/silkroad/internal/infrastructure/random"
	"github.com/ersonp/silkroad/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/silkroad/internal/infrastructure/snapshot/file"
)

func TestEndToEnd_SQLite(t *testing.T) {
	dir := t.TempDir()
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(dir, "silkroad.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ctx := t.Context()
	logger := discardLogger()

	initResult, err := NewInitHandler(repo).Handle(ctx, entities.GameTypeSilkRoad)
	require.NoError(t, err)
	require.True(t, initResult.Created)
	id := initResult.Instance.ID

	worlds := NewWorldHandler(repo, entities.GameTypeSilkRoad, logger)
	seed, err := worlds.HandleSeed(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 8, seed.Entities)

	snapDir := filepath.Join(dir, "snapshots")
	rng := random.NewSource(42)
	engine := services.NewTurnEngine(repo, file.NewWriter(snapDir, true), rng, services.TurnOptions{Logger: logger})
	turns := NewTurnHandler(engine, services.NewCaravanSpawner(rng, logger), repo, logger)

	result, err := turns.HandleRun(ctx, id, 1)
	require.NoError(t, err)
	require.Len(t, result.Reports, 1)
	report := result.Reports[0]
	assert.Len(t, report.Outcomes, 2)

	snaps, err := filepath.Glob(filepath.Join(snapDir, "*.json.zst"))
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	end, err := filepath.Glob(filepath.Join(snapDir, "*_end_*.json.zst"))
	require.NoError(t, err)
	require.Len(t, end, 1)
	snapshot, err := file.ReadSnapshot(end[0])
	require.NoError(t, err)
	assert.Equal(t, 0, world.CountInTransit(snapshot))

	graph, err := worlds.HandleExport(ctx, id)
	require.NoError(t, err)
	caravans := graph.EntitiesOfType(entities.EntityCaravan)
	assert.Len(t, caravans, 2+len(result.Spawned))
	assert.Equal(t, len(result.Spawned), world.CountInTransit(graph))

	history, err := worlds.HandleHistory(ctx, id, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, report.TurnID, history[0].TurnID)

	resolved, err := worlds.ResolveInstance(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, id, resolved)
}
