package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ersonp/silkroad/internal/application/handlers"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/infrastructure/config"
	"github.com/ersonp/silkroad/internal/infrastructure/random"
	"github.com/ersonp/silkroad/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/silkroad/internal/infrastructure/snapshot/file"
	"github.com/ersonp/silkroad/internal/infrastructure/telemetry"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config    *config.Config
	Worlds    *config.WorldsConfig
	BasePath  string
	WorldName string
	Logger    *slog.Logger

	InitHandler   *handlers.InitHandler
	WorldHandler  *handlers.WorldHandler
	TurnHandler   *handlers.TurnHandler
	ImportHandler *handlers.ImportHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	worlds, err := config.LoadWorlds(cwd)
	if err != nil {
		return fmt.Errorf("loading worlds: %w", err)
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	worldName := globalWorld
	if worldName == "" {
		worldName = DefaultWorld
	}

	dbPath := cfg.DBPathForWorld(cwd, worldName)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("creating world directory: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: dbPath})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	var snapshots ports.SnapshotWriter
	if cfg.Snapshot.Enabled {
		snapshots = file.NewWriter(cfg.SnapshotDirForWorld(cwd, worldName), cfg.Snapshot.Compress)
	}

	rng := random.NewSource(cfg.Random.Seed)
	logger.Debug("random source ready", "seed", rng.Seed())

	engine := services.NewTurnEngine(store, snapshots, rng, services.TurnOptions{
		GameType:   cfg.Game.Type,
		PlayerName: cfg.Game.Player,
		Logger:     logger,
	})
	spawner := services.NewCaravanSpawner(rng, logger)

	deps := &Deps{
		Config:        cfg,
		Worlds:        worlds,
		BasePath:      cwd,
		WorldName:     worldName,
		Logger:        logger,
		InitHandler:   handlers.NewInitHandler(store),
		WorldHandler:  handlers.NewWorldHandler(store, cfg.Game.Type, logger),
		TurnHandler:   handlers.NewTurnHandler(engine, spawner, store, logger),
		ImportHandler: handlers.NewImportHandler(services.NewImportService(store)),
	}

	return fn(deps)
}

// instanceID resolves the instance to operate on: the --instance flag, then
// the instance pinned to the world, then the newest active instance.
func (d *Deps) instanceID(ctx context.Context) (int64, error) {
	pinned := globalInstance
	if pinned == 0 && d.Worlds.Exists(d.WorldName) {
		pinned, _ = d.Worlds.InstanceID(d.WorldName)
	}
	return d.WorldHandler.ResolveInstance(ctx, pinned)
}

// newLogger builds the process logger from configuration.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
