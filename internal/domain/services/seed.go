package services

import (
	"fmt"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// SeedResult counts what a seeding pass added.
type SeedResult struct {
	Entities      int `json:"entities"`
	Attributes    int `json:"attributes"`
	Relationships int `json:"relationships"`
	States        int `json:"states"`
}

// WorldSeeder builds the starter world of a silkroad instance.
type WorldSeeder struct{}

// NewWorldSeeder creates a new world seeder.
func NewWorldSeeder() *WorldSeeder {
	return &WorldSeeder{}
}

type seedEntity struct {
	entityType entities.EntityType
	name       string
	attrs      []seedAttribute
}

type seedAttribute struct {
	key   entities.AttributeKey
	value any
}

type seedEdge struct {
	source, target string
	relType        entities.RelationshipType
}

func starterEntities() []seedEntity {
	return []seedEntity{
		{entities.EntityMerchant, entities.PlayerName, []seedAttribute{
			{entities.AttrCapital, entities.Capital{Value: 1000}},
			{entities.AttrReputation, entities.Scalar{Value: 0.8}},
		}},
		{entities.EntityMerchant, entities.RivalName, []seedAttribute{
			{entities.AttrCapital, entities.Capital{Value: 800}},
			{entities.AttrReputation, entities.Scalar{Value: 0.6}},
		}},
		{entities.EntityCaravan, "SG-001", []seedAttribute{
			{entities.AttrGoods, entities.Goods{Type: "Silk", Quantity: 50}},
			{entities.AttrRoute, entities.Route{Start: "Samarkand", End: "ChangAn", RiskLevel: entities.RiskHigh}},
			{entities.AttrInvestment, entities.Investment{Value: 200}},
			{entities.AttrStatus, entities.Status{Value: entities.StatusInTransit}},
		}},
		{entities.EntityCaravan, "SG-002", []seedAttribute{
			{entities.AttrGoods, entities.Goods{Type: "Spices", Quantity: 20}},
			{entities.AttrRoute, entities.Route{Start: "Bukhara", End: "Damascus", RiskLevel: entities.RiskMedium}},
			{entities.AttrInvestment, entities.Investment{Value: 150}},
			{entities.AttrStatus, entities.Status{Value: entities.StatusInTransit}},
		}},
		{entities.EntityTribe, entities.TurkicTribeName, []seedAttribute{
			{entities.AttrTollRate, entities.Scalar{Value: 50}},
			{entities.AttrAggression, entities.Scalar{Value: 0.3}},
		}},
		{entities.EntityRuler, entities.ChangAnRulerName, []seedAttribute{
			{entities.AttrTaxRate, entities.Scalar{Value: 0.1}},
		}},
		{entities.EntityMarket, entities.ChangAnMarketName, []seedAttribute{
			{entities.AttrDemand, entities.DefaultDemand(entities.ChangAnMarketName)},
		}},
		{entities.EntityMarket, entities.DamascusMarketName, []seedAttribute{
			{entities.AttrDemand, entities.DefaultDemand(entities.DamascusMarketName)},
		}},
	}
}

func starterEdges() []seedEdge {
	return []seedEdge{
		{"SG-001", entities.RivalName, entities.RelationPartnership},
		{"SG-001", entities.TurkicTribeName, entities.RelationTollNegotiation},
		{"SG-002", entities.TurkicTribeName, entities.RelationTollNegotiation},
		{"SG-001", entities.ChangAnMarketName, entities.RelationTrade},
		{"SG-002", entities.DamascusMarketName, entities.RelationTrade},
	}
}

// Seed adds whatever part of the starter world graph is missing. Existing
// entities, attributes and states are left as they are, so seeding twice
// changes nothing.
func (s *WorldSeeder) Seed(graph *entities.Graph) (*SeedResult, error) {
	now := timeNow()
	result := &SeedResult{}
	byName := make(map[string]*entities.Entity)

	for _, se := range starterEntities() {
		e := graph.FindEntity(se.entityType, se.name)
		if e == nil {
			e = graph.AddEntity(se.entityType, se.name, now)
			result.Entities++
		}
		byName[se.name] = e

		for _, a := range se.attrs {
			if e.Attribute(a.key) != nil {
				continue
			}
			if err := world.SetAttribute(e, a.key, a.value, now); err != nil {
				return nil, fmt.Errorf("seeding %s %s: %w", se.name, a.key, err)
			}
			result.Attributes++
		}
	}

	for _, edge := range starterEdges() {
		if _, added := graph.AddRelationship(byName[edge.source].ID, byName[edge.target].ID, edge.relType, now); added {
			result.Relationships++
		}
	}

	if graph.State(entities.StateMarketPrices) == nil {
		if err := world.SetMarketPrices(graph, entities.DefaultMarketPrices(), now); err != nil {
			return nil, fmt.Errorf("seeding market prices: %w", err)
		}
		result.States++
	}
	if graph.State(entities.StateRandomEvents) == nil {
		if err := world.SetEventCatalog(graph, entities.DefaultEventCatalog(), now); err != nil {
			return nil, fmt.Errorf("seeding event catalog: %w", err)
		}
		result.States++
	}

	return result, nil
}
