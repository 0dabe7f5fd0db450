package services

import (
	"log/slog"
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// congestionFactor scales every price at a market with more than one caravan.
const congestionFactor = 0.8

// MarketPriceService loads the instance-wide price aggregate.
type MarketPriceService struct {
	logger *slog.Logger
}

// NewMarketPriceService creates a new market price service.
func NewMarketPriceService(logger *slog.Logger) *MarketPriceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketPriceService{logger: logger}
}

// Load returns the stored MarketPrices aggregate, falling back to the
// default table when it is absent or unreadable.
func (s *MarketPriceService) Load(graph *entities.Graph) entities.MarketPrices {
	prices, ok, err := world.MarketPrices(graph)
	switch {
	case err != nil:
		s.logger.Warn("market prices unreadable, using defaults", "instance", graph.Instance.ID, "error", err)
	case !ok:
		s.logger.Warn("no market prices stored, using defaults", "instance", graph.Instance.ID)
	default:
		return prices
	}
	return entities.DefaultMarketPrices()
}

// MarketAdjustment describes what happened to one market during a turn.
type MarketAdjustment struct {
	MarketID      int64           `json:"market_id"`
	Market        string          `json:"market"`
	CaravanCount  int             `json:"caravan_count"`
	Congested     bool            `json:"congested"`
	SeededDefault bool            `json:"seeded_default"`
	Demand        entities.Demand `json:"demand"`
}

// MarketAdjuster recomputes market prices from trade congestion.
type MarketAdjuster struct {
	logger *slog.Logger
}

// NewMarketAdjuster creates a new market adjuster.
func NewMarketAdjuster(logger *slog.Logger) *MarketAdjuster {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketAdjuster{logger: logger}
}

// Adjust groups Trade edges by market, seeds default demand where a market
// has none, depresses every price by congestionFactor at markets with more
// than one distinct caravan, and finally overwrites the instance's
// MarketPrices state with prices.
func (a *MarketAdjuster) Adjust(graph *entities.Graph, prices entities.MarketPrices) []MarketAdjustment {
	now := timeNow()

	var order []int64
	caravans := make(map[int64]map[int64]struct{})
	for _, edge := range graph.EdgesOfType(entities.RelationTrade) {
		sources, ok := caravans[edge.TargetEntityID]
		if !ok {
			sources = make(map[int64]struct{})
			caravans[edge.TargetEntityID] = sources
			order = append(order, edge.TargetEntityID)
		}
		sources[edge.SourceEntityID] = struct{}{}
	}

	adjustments := make([]MarketAdjustment, 0, len(order))
	for _, marketID := range order {
		market := graph.Entity(marketID)
		if market == nil || market.Type != entities.EntityMarket {
			a.logger.Warn("trade target is not a market, skipping", "entity", marketID)
			continue
		}

		adj, ok := a.adjustMarket(market, len(caravans[marketID]), now)
		if ok {
			adjustments = append(adjustments, adj)
		}
	}

	if err := world.SetMarketPrices(graph, prices, now); err != nil {
		a.logger.Warn("market prices not stored", "instance", graph.Instance.ID, "error", err)
	}
	return adjustments
}

func (a *MarketAdjuster) adjustMarket(market *entities.Entity, caravanCount int, now time.Time) (MarketAdjustment, bool) {
	adj := MarketAdjustment{
		MarketID:     market.ID,
		Market:       market.Name,
		CaravanCount: caravanCount,
		Congested:    caravanCount > 1,
	}

	demand, ok, err := world.Demand(market)
	if err != nil {
		a.logger.Warn("market demand unreadable, skipping", "market", market.Name, "error", err)
		return adj, false
	}
	if !ok || len(demand) == 0 {
		a.logger.Warn("market has no demand, seeding defaults", "market", market.Name)
		demand = entities.DefaultDemand(market.Name)
		adj.SeededDefault = true
	}

	if adj.Congested {
		adjusted := make(entities.Demand, len(demand))
		for good, gd := range demand {
			gd.Price *= congestionFactor
			adjusted[good] = gd
		}
		demand = adjusted
	}
	adj.Demand = demand

	if adj.Congested || adj.SeededDefault {
		if err := world.SetDemand(market, demand, now); err != nil {
			a.logger.Warn("market demand not stored", "market", market.Name, "error", err)
			return adj, false
		}
	}
	return adj, true
}
