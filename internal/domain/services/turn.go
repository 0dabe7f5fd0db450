package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/world"
)

const tracerName = "github.com/ersonp/silkroad/internal/domain/services"

var (
	// ErrInstanceNotFound is returned when the requested instance does not exist.
	ErrInstanceNotFound = errors.New("game instance not found")
	// ErrWrongGameType is returned when the instance is not a silkroad game.
	ErrWrongGameType = errors.New("game instance has wrong game type")
)

// TurnPhase is a step of the turn state machine.
type TurnPhase string

const (
	PhaseStart           TurnPhase = "Start"
	PhaseLoadWorld       TurnPhase = "LoadWorld"
	PhaseResolveCaravans TurnPhase = "ResolveCaravans"
	PhaseAdjustMarkets   TurnPhase = "AdjustMarkets"
	PhasePersist         TurnPhase = "Persist"
	PhaseSnapshotEnd     TurnPhase = "SnapshotEnd"
	PhaseDone            TurnPhase = "Done"
)

// SkippedCaravan records a caravan left unresolved this turn.
type SkippedCaravan struct {
	CaravanID int64  `json:"caravan_id"`
	Caravan   string `json:"caravan"`
	Reason    string `json:"reason"`
}

// TurnReport summarizes one turn.
type TurnReport struct {
	TurnID     string             `json:"turn_id"`
	InstanceID int64              `json:"instance_id"`
	Phase      TurnPhase          `json:"phase"`
	Outcomes   []*Outcome         `json:"outcomes"`
	Skipped    []SkippedCaravan   `json:"skipped,omitempty"`
	Markets    []MarketAdjustment `json:"markets"`
	InTransit  int                `json:"in_transit"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// TurnOptions configures a TurnEngine.
type TurnOptions struct {
	GameType   string
	PlayerName string
	Logger     *slog.Logger
}

// TurnEngine runs one full turn of a game instance: load the graph, resolve
// every in-transit caravan, adjust markets, persist and snapshot.
type TurnEngine struct {
	store     ports.WorldStore
	snapshots ports.SnapshotWriter
	resolver  *CaravanResolver
	adjuster  *MarketAdjuster
	events    *EventCatalogService
	prices    *MarketPriceService
	gameType  string
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewTurnEngine creates a new turn engine. snapshots may be nil to disable
// snapshotting.
func NewTurnEngine(store ports.WorldStore, snapshots ports.SnapshotWriter, rng ports.Random, opts TurnOptions) *TurnEngine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gameType := opts.GameType
	if gameType == "" {
		gameType = entities.GameTypeSilkRoad
	}
	return &TurnEngine{
		store:     store,
		snapshots: snapshots,
		resolver:  NewCaravanResolver(rng, opts.PlayerName, logger),
		adjuster:  NewMarketAdjuster(logger),
		events:    NewEventCatalogService(logger),
		prices:    NewMarketPriceService(logger),
		gameType:  gameType,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

// RunTurn runs one turn of the instance. It fails only when the instance
// cannot be loaded, has the wrong game type, or the mutated graph cannot be
// persisted. Per-caravan and per-market problems are logged and reported.
func (e *TurnEngine) RunTurn(ctx context.Context, instanceID int64) (*TurnReport, error) {
	report := &TurnReport{
		TurnID:     uuid.New().String(),
		InstanceID: instanceID,
		Phase:      PhaseStart,
		StartedAt:  timeNow(),
	}
	logger := e.logger.With("turn_id", report.TurnID, "instance", instanceID)

	ctx, span := e.tracer.Start(ctx, "silkroad.turn", trace.WithAttributes(
		attribute.String("turn.id", report.TurnID),
		attribute.Int64("instance.id", instanceID),
	))
	defer span.End()

	e.enter(report, PhaseLoadWorld, logger)
	graph, err := e.load(ctx, instanceID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	e.snapshot(ctx, graph, ports.SnapshotStart, logger)

	e.enter(report, PhaseResolveCaravans, logger)
	e.resolveCaravans(ctx, graph, report, logger)

	e.enter(report, PhaseAdjustMarkets, logger)
	_, marketSpan := e.tracer.Start(ctx, "silkroad.turn.adjust_markets")
	report.Markets = e.adjuster.Adjust(graph, e.prices.Load(graph))
	marketSpan.SetAttributes(attribute.Int("markets.adjusted", len(report.Markets)))
	marketSpan.End()

	e.enter(report, PhasePersist, logger)
	graph.Instance.LastUpdated = timeNow()
	persistCtx, persistSpan := e.tracer.Start(ctx, "silkroad.turn.persist")
	err = e.store.Persist(persistCtx, graph)
	persistSpan.End()
	if err != nil {
		err = fmt.Errorf("persisting instance %d: %w", instanceID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	e.enter(report, PhaseSnapshotEnd, logger)
	e.snapshot(ctx, graph, ports.SnapshotEnd, logger)

	report.InTransit = world.CountInTransit(graph)
	report.FinishedAt = timeNow()
	e.enter(report, PhaseDone, logger)
	logger.Info("turn complete",
		"resolved", len(report.Outcomes),
		"skipped", len(report.Skipped),
		"markets", len(report.Markets),
		"in_transit", report.InTransit,
	)
	span.SetAttributes(
		attribute.Int("caravans.resolved", len(report.Outcomes)),
		attribute.Int("caravans.skipped", len(report.Skipped)),
	)
	return report, nil
}

func (e *TurnEngine) enter(report *TurnReport, phase TurnPhase, logger *slog.Logger) {
	report.Phase = phase
	logger.Debug("turn phase", "phase", phase)
}

// load fetches the graph and checks the single hard precondition of a turn.
func (e *TurnEngine) load(ctx context.Context, instanceID int64) (*entities.Graph, error) {
	ctx, span := e.tracer.Start(ctx, "silkroad.turn.load")
	defer span.End()

	graph, err := e.store.LoadInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("loading instance %d: %w", instanceID, err)
	}
	if graph == nil {
		return nil, fmt.Errorf("%w: %d", ErrInstanceNotFound, instanceID)
	}
	if graph.Instance.GameType != e.gameType {
		return nil, fmt.Errorf("%w: instance %d is %q, want %q", ErrWrongGameType, instanceID, graph.Instance.GameType, e.gameType)
	}
	span.SetAttributes(attribute.Int("graph.entities", len(graph.Entities)))
	return graph, nil
}

// resolveCaravans resolves in-transit caravans in graph order. Capital
// credits to a shared player apply sequentially in that order.
func (e *TurnEngine) resolveCaravans(ctx context.Context, graph *entities.Graph, report *TurnReport, logger *slog.Logger) {
	_, span := e.tracer.Start(ctx, "silkroad.turn.resolve_caravans")
	defer span.End()

	catalog := e.events.Load(graph)
	for _, caravan := range world.InTransit(graph) {
		out, err := e.resolver.Resolve(graph, caravan, catalog)
		if err != nil {
			logger.Warn("caravan skipped", "caravan", caravan.Name, "reason", err)
			report.Skipped = append(report.Skipped, SkippedCaravan{
				CaravanID: caravan.ID,
				Caravan:   caravan.Name,
				Reason:    err.Error(),
			})
			continue
		}
		logger.Info("caravan resolved",
			"caravan", out.Caravan,
			"event", out.Event,
			"paid_toll", out.PaidToll,
			"remaining", out.RemainingQuantity,
			"payoff", out.Payoff,
			"capital_delta", out.CapitalDelta(),
		)
		report.Outcomes = append(report.Outcomes, out)
	}
	span.SetAttributes(
		attribute.Int("caravans.resolved", len(report.Outcomes)),
		attribute.Int("caravans.skipped", len(report.Skipped)),
	)
}

// snapshot writes a best-effort snapshot; failures are logged only.
func (e *TurnEngine) snapshot(ctx context.Context, graph *entities.Graph, phase ports.SnapshotPhase, logger *slog.Logger) {
	if e.snapshots == nil {
		return
	}
	if err := e.snapshots.WriteSnapshot(ctx, graph.Instance.ID, phase, graph); err != nil {
		logger.Warn("snapshot failed", "phase", phase, "error", err)
	}
}
