package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/services"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// ErrNoActiveInstance is returned when no instance was pinned and none is active.
var ErrNoActiveInstance = errors.New("no active game instance")

// WorldHandler handles read and seed operations on a game instance.
type WorldHandler struct {
	store    ports.WorldStore
	seeder   *services.WorldSeeder
	gameType string
	logger   *slog.Logger
}

// NewWorldHandler creates a new world handler.
func NewWorldHandler(store ports.WorldStore, gameType string, logger *slog.Logger) *WorldHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if gameType == "" {
		gameType = entities.GameTypeSilkRoad
	}
	return &WorldHandler{
		store:    store,
		seeder:   services.NewWorldSeeder(),
		gameType: gameType,
		logger:   logger,
	}
}

// ResolveInstance returns pinned when set, otherwise the newest active
// instance of the handler's game type.
func (h *WorldHandler) ResolveInstance(ctx context.Context, pinned int64) (int64, error) {
	if pinned > 0 {
		return pinned, nil
	}
	inst, err := h.store.FindActiveInstance(ctx, h.gameType)
	if err != nil {
		return 0, fmt.Errorf("finding active instance: %w", err)
	}
	if inst == nil {
		return 0, fmt.Errorf("%w (run 'silkroad init' first)", ErrNoActiveInstance)
	}
	return inst.ID, nil
}

// HandleSeed adds the starter world to an instance. Existing entities,
// attributes, edges and states are left alone.
func (h *WorldHandler) HandleSeed(ctx context.Context, instanceID int64) (*services.SeedResult, error) {
	graph, err := h.load(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	result, err := h.seeder.Seed(graph)
	if err != nil {
		return nil, err
	}
	if *result == (services.SeedResult{}) {
		return result, nil
	}

	if err := h.store.Persist(ctx, graph); err != nil {
		return nil, fmt.Errorf("saving seeded world: %w", err)
	}
	h.logger.Info("world seeded",
		"instance", instanceID,
		"entities", result.Entities,
		"relationships", result.Relationships,
		"states", result.States,
	)
	return result, nil
}

// MerchantStatus summarizes one merchant.
type MerchantStatus struct {
	Name       string   `json:"name"`
	Capital    float64  `json:"capital"`
	Reputation float64  `json:"reputation"`
	Unreadable []string `json:"unreadable,omitempty"`
}

// CaravanStatus summarizes one caravan. Attributes that fail to decode are
// left zero and listed in Unreadable.
type CaravanStatus struct {
	Name       string                 `json:"name"`
	Status     entities.CaravanStatus `json:"status"`
	Good       string                 `json:"good"`
	Quantity   int                    `json:"quantity"`
	Route      string                 `json:"route"`
	Payoff     *float64               `json:"payoff,omitempty"`
	Unreadable []string               `json:"unreadable,omitempty"`
}

// MarketStatus summarizes one market.
type MarketStatus struct {
	Name       string          `json:"name"`
	Demand     entities.Demand `json:"demand"`
	Unreadable []string        `json:"unreadable,omitempty"`
}

// WorldStatus is a readable summary of an instance.
type WorldStatus struct {
	Instance  entities.GameInstance `json:"instance"`
	Merchants []MerchantStatus      `json:"merchants"`
	Caravans  []CaravanStatus       `json:"caravans"`
	Markets   []MarketStatus        `json:"markets"`
	Prices    entities.MarketPrices `json:"prices,omitempty"`
	InTransit int                   `json:"in_transit"`
}

// HandleStatus summarizes merchants, caravans, markets and prices.
func (h *WorldHandler) HandleStatus(ctx context.Context, instanceID int64) (*WorldStatus, error) {
	graph, err := h.load(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	status := &WorldStatus{
		Instance:  graph.Instance,
		InTransit: world.CountInTransit(graph),
	}

	for _, e := range graph.EntitiesOfType(entities.EntityMerchant) {
		m := MerchantStatus{Name: e.Name}
		capital, _, err := world.Capital(e)
		if err != nil {
			m.Unreadable = h.unreadable(m.Unreadable, e, entities.AttrCapital, err)
		}
		m.Capital = capital
		rep, _, err := world.DecodeAttribute[entities.Scalar](e, entities.AttrReputation)
		if err != nil {
			m.Unreadable = h.unreadable(m.Unreadable, e, entities.AttrReputation, err)
		}
		m.Reputation = rep.Value
		status.Merchants = append(status.Merchants, m)
	}

	for _, e := range graph.EntitiesOfType(entities.EntityCaravan) {
		c := CaravanStatus{Name: e.Name}
		st, _, err := world.Status(e)
		if err != nil {
			c.Unreadable = h.unreadable(c.Unreadable, e, entities.AttrStatus, err)
		}
		c.Status = st
		goods, _, err := world.Goods(e)
		if err != nil {
			c.Unreadable = h.unreadable(c.Unreadable, e, entities.AttrGoods, err)
		}
		c.Good, c.Quantity = goods.Type, goods.Quantity
		route, ok, err := world.Route(e)
		switch {
		case err != nil:
			c.Unreadable = h.unreadable(c.Unreadable, e, entities.AttrRoute, err)
		case ok:
			c.Route = fmt.Sprintf("%s -> %s (%s)", route.Start, route.End, route.RiskLevel)
		}
		payoff, ok, err := world.Payoff(e)
		switch {
		case err != nil:
			c.Unreadable = h.unreadable(c.Unreadable, e, entities.AttrPayoff, err)
		case ok:
			c.Payoff = &payoff
		}
		status.Caravans = append(status.Caravans, c)
	}

	for _, e := range graph.EntitiesOfType(entities.EntityMarket) {
		m := MarketStatus{Name: e.Name}
		demand, _, err := world.Demand(e)
		if err != nil {
			m.Unreadable = h.unreadable(m.Unreadable, e, entities.AttrDemand, err)
		}
		m.Demand = demand
		status.Markets = append(status.Markets, m)
	}

	prices, _, err := world.MarketPrices(graph)
	if err != nil {
		h.logger.Warn("unreadable game state", "key", entities.StateMarketPrices, "reason", err)
	}
	status.Prices = prices

	return status, nil
}

// unreadable logs an attribute that failed to decode and appends its key
// to keys.
func (h *WorldHandler) unreadable(keys []string, e *entities.Entity, key entities.AttributeKey, err error) []string {
	h.logger.Warn("unreadable attribute", "entity", e.Name, "key", key, "reason", err)
	return append(keys, string(key))
}

// HandleList returns all instances, newest first.
func (h *WorldHandler) HandleList(ctx context.Context) ([]entities.GameInstance, error) {
	return h.store.ListInstances(ctx)
}

// HandleHistory returns the most recent turns of an instance.
func (h *WorldHandler) HandleHistory(ctx context.Context, instanceID int64, limit int) ([]entities.TurnLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return h.store.ListTurns(ctx, instanceID, limit)
}

// HandleExport returns the full graph of an instance.
func (h *WorldHandler) HandleExport(ctx context.Context, instanceID int64) (*entities.Graph, error) {
	return h.load(ctx, instanceID)
}

func (h *WorldHandler) load(ctx context.Context, instanceID int64) (*entities.Graph, error) {
	graph, err := h.store.LoadInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("loading instance: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("%w: %d", services.ErrInstanceNotFound, instanceID)
	}
	return graph, nil
}
