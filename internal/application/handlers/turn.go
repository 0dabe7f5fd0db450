package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/services"
)

// TurnHandler runs turns and keeps caravans on the road between them.
type TurnHandler struct {
	engine  *services.TurnEngine
	spawner *services.CaravanSpawner
	store   ports.WorldStore
	logger  *slog.Logger
}

// NewTurnHandler creates a new turn handler. A nil spawner disables
// spawning between turns.
func NewTurnHandler(engine *services.TurnEngine, spawner *services.CaravanSpawner, store ports.WorldStore, logger *slog.Logger) *TurnHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TurnHandler{
		engine:  engine,
		spawner: spawner,
		store:   store,
		logger:  logger,
	}
}

// TurnRunResult contains the reports of every completed turn.
type TurnRunResult struct {
	Reports []*services.TurnReport
	// Spawned lists caravans added after a turn left none in transit.
	Spawned []string
}

// HandleRun runs count turns of the instance. After each turn it records the
// turn log and, when no caravan is left in transit, spawns new caravans
// before the next turn. It stops at the first fatal turn error and returns
// the turns completed so far.
func (h *TurnHandler) HandleRun(ctx context.Context, instanceID int64, count int) (*TurnRunResult, error) {
	if count < 1 {
		count = 1
	}
	result := &TurnRunResult{}

	for i := range count {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report, err := h.engine.RunTurn(ctx, instanceID)
		if err != nil {
			return result, fmt.Errorf("turn %d: %w", i+1, err)
		}
		result.Reports = append(result.Reports, report)
		h.logTurn(ctx, report)

		if report.InTransit > 0 || h.spawner == nil {
			continue
		}
		spawned, err := h.spawn(ctx, instanceID)
		if err != nil {
			return result, fmt.Errorf("spawning caravans after turn %d: %w", i+1, err)
		}
		result.Spawned = append(result.Spawned, spawned...)
	}

	return result, nil
}

func (h *TurnHandler) logTurn(ctx context.Context, report *services.TurnReport) {
	var capitalDelta float64
	for _, o := range report.Outcomes {
		capitalDelta += o.CapitalDelta()
	}
	entry := &entities.TurnLogEntry{
		TurnID:     report.TurnID,
		InstanceID: report.InstanceID,
		Details: map[string]any{
			"resolved":      len(report.Outcomes),
			"skipped":       len(report.Skipped),
			"markets":       len(report.Markets),
			"in_transit":    report.InTransit,
			"capital_delta": capitalDelta,
		},
		CreatedAt: report.FinishedAt,
	}
	if err := h.store.LogTurn(ctx, entry); err != nil {
		h.logger.Warn("turn log failed", "turn_id", report.TurnID, "error", err)
	}
}

func (h *TurnHandler) spawn(ctx context.Context, instanceID int64) ([]string, error) {
	graph, err := h.store.LoadInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("loading instance: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("%w: %d", services.ErrInstanceNotFound, instanceID)
	}

	caravans, err := h.spawner.Spawn(graph)
	if err != nil {
		return nil, err
	}
	if len(caravans) == 0 {
		return nil, nil
	}
	if err := h.store.Persist(ctx, graph); err != nil {
		return nil, fmt.Errorf("saving spawned caravans: %w", err)
	}

	names := make([]string, 0, len(caravans))
	for _, c := range caravans {
		names = append(names, c.Name)
	}
	h.logger.Info("caravans spawned", "instance", instanceID, "caravans", names)
	return names, nil
}
