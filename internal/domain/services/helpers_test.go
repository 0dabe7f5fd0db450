package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/world"
	"github.com/stretchr/testify/require"
)

func newTestGraph() *entities.Graph {
	return entities.NewGraph(entities.GameInstance{
		ID:       1,
		GameType: entities.GameTypeSilkRoad,
		IsActive: true,
	})
}

func addEntity(t *testing.T, g *entities.Graph, typ entities.EntityType, name string, attrs map[entities.AttributeKey]any) *entities.Entity {
	t.Helper()
	e := g.AddEntity(typ, name, time.Now())
	for key, v := range attrs {
		require.NoError(t, world.SetAttribute(e, key, v, time.Now()))
	}
	return e
}

func setRaw(e *entities.Entity, key entities.AttributeKey, raw string) {
	e.SetAttribute(key, json.RawMessage(raw), time.Now())
}

func addEdge(g *entities.Graph, source, target *entities.Entity, t entities.RelationshipType) {
	g.AddRelationship(source.ID, target.ID, t, time.Now())
}

// silkWorld holds a graph with a player, a High-risk Silk caravan trading at
// ChangAnMarket (Silk 12), and no partnership or toll edges.
type silkWorld struct {
	graph   *entities.Graph
	player  *entities.Entity
	rival   *entities.Entity
	caravan *entities.Entity
	market  *entities.Entity
	tribe   *entities.Entity
}

func newSilkWorld(t *testing.T) *silkWorld {
	t.Helper()
	g := newTestGraph()
	w := &silkWorld{graph: g}
	w.player = addEntity(t, g, entities.EntityMerchant, entities.PlayerName, map[entities.AttributeKey]any{
		entities.AttrCapital: entities.Capital{Value: 1000},
	})
	w.rival = addEntity(t, g, entities.EntityMerchant, entities.RivalName, map[entities.AttributeKey]any{
		entities.AttrCapital: entities.Capital{Value: 800},
	})
	w.caravan = addEntity(t, g, entities.EntityCaravan, "SG-001", map[entities.AttributeKey]any{
		entities.AttrGoods:      entities.Goods{Type: "Silk", Quantity: 50},
		entities.AttrRoute:      entities.Route{Start: "Samarkand", End: "ChangAn", RiskLevel: entities.RiskHigh},
		entities.AttrInvestment: entities.Investment{Value: 200},
		entities.AttrStatus:     entities.Status{Value: entities.StatusInTransit},
	})
	w.market = addEntity(t, g, entities.EntityMarket, entities.ChangAnMarketName, map[entities.AttributeKey]any{
		entities.AttrDemand: entities.DefaultDemand(entities.ChangAnMarketName),
	})
	w.tribe = addEntity(t, g, entities.EntityTribe, entities.TurkicTribeName, nil)
	addEdge(g, w.caravan, w.market, entities.RelationTrade)
	return w
}

func capitalOf(t *testing.T, e *entities.Entity) float64 {
	t.Helper()
	v, ok, err := world.Capital(e)
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func statusOf(t *testing.T, e *entities.Entity) entities.CaravanStatus {
	t.Helper()
	v, ok, err := world.Status(e)
	require.NoError(t, err)
	require.True(t, ok)
	return v
}

func halfLossCatalog() entities.EventCatalog {
	return entities.EventCatalog{
		"BanditAttack": {Probability: 0.3, Impact: entities.ImpactLoseHalf},
	}
}
