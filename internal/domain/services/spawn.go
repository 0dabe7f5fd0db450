package services

import (
	"fmt"
	"log/slog"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// caravanTemplate is the attribute set of a freshly spawned caravan.
type caravanTemplate struct {
	goods      entities.Goods
	route      entities.Route
	investment float64
	market     string
}

var caravanTemplates = []caravanTemplate{
	{
		goods:      entities.Goods{Type: "Silk", Quantity: 50},
		route:      entities.Route{Start: "Samarkand", End: "ChangAn", RiskLevel: entities.RiskHigh},
		investment: 200,
		market:     entities.ChangAnMarketName,
	},
	{
		goods:      entities.Goods{Type: "Spices", Quantity: 20},
		route:      entities.Route{Start: "Bukhara", End: "Damascus", RiskLevel: entities.RiskMedium},
		investment: 150,
		market:     entities.DamascusMarketName,
	},
}

// CaravanSpawner feeds new caravans into an instance once every caravan
// has completed.
type CaravanSpawner struct {
	rng    ports.Random
	logger *slog.Logger
}

// NewCaravanSpawner creates a new caravan spawner.
func NewCaravanSpawner(rng ports.Random, logger *slog.Logger) *CaravanSpawner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CaravanSpawner{rng: rng, logger: logger}
}

// Spawn adds one or two in-transit caravans to graph when none remain in
// transit. Caravans alternate between the Silk and Spices templates, trade
// at the template's market (created with default demand if missing) and
// negotiate tolls with TurkicTribe when it exists. It returns the new
// caravans, or nil when caravans are still travelling.
func (s *CaravanSpawner) Spawn(graph *entities.Graph) ([]*entities.Entity, error) {
	if world.CountInTransit(graph) > 0 {
		return nil, nil
	}

	now := timeNow()
	count := 1 + s.rng.IntN(2)
	base := int(now.Unix() % 10000)
	tribe := graph.FindEntity(entities.EntityTribe, entities.TurkicTribeName)

	spawned := make([]*entities.Entity, 0, count)
	for i := range count {
		tmpl := caravanTemplates[i%len(caravanTemplates)]
		caravan := graph.AddEntity(entities.EntityCaravan, fmt.Sprintf("SG-%d", base+i), now)

		attrs := []struct {
			key   entities.AttributeKey
			value any
		}{
			{entities.AttrGoods, tmpl.goods},
			{entities.AttrRoute, tmpl.route},
			{entities.AttrInvestment, entities.Investment{Value: tmpl.investment}},
			{entities.AttrStatus, entities.Status{Value: entities.StatusInTransit}},
		}
		for _, a := range attrs {
			if err := world.SetAttribute(caravan, a.key, a.value, now); err != nil {
				return nil, fmt.Errorf("spawning %s: %w", caravan.Name, err)
			}
		}

		market, err := s.ensureMarket(graph, tmpl.market)
		if err != nil {
			return nil, err
		}
		graph.AddRelationship(caravan.ID, market.ID, entities.RelationTrade, now)
		if tribe != nil {
			graph.AddRelationship(caravan.ID, tribe.ID, entities.RelationTollNegotiation, now)
		}

		s.logger.Info("caravan spawned", "caravan", caravan.Name, "good", tmpl.goods.Type, "market", market.Name)
		spawned = append(spawned, caravan)
	}
	return spawned, nil
}

func (s *CaravanSpawner) ensureMarket(graph *entities.Graph, name string) (*entities.Entity, error) {
	if market := graph.FindEntity(entities.EntityMarket, name); market != nil {
		return market, nil
	}
	market := graph.AddEntity(entities.EntityMarket, name, timeNow())
	if err := world.SetDemand(market, entities.DefaultDemand(name), timeNow()); err != nil {
		return nil, fmt.Errorf("creating market %s: %w", name, err)
	}
	s.logger.Warn("market missing, created with default demand", "market", name)
	return market, nil
}
