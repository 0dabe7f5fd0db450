package services

import (
	"testing"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldSeeder_Seed(t *testing.T) {
	g := newTestGraph()

	result, err := NewWorldSeeder().Seed(g)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Entities)
	assert.Equal(t, 5, result.Relationships)
	assert.Equal(t, 2, result.States)

	player := g.FindEntity(entities.EntityMerchant, entities.PlayerName)
	require.NotNil(t, player)
	assert.Equal(t, 1000.0, capitalOf(t, player))

	caravan := g.FindEntity(entities.EntityCaravan, "SG-001")
	require.NotNil(t, caravan)
	c, err := world.LoadCaravan(caravan)
	require.NoError(t, err)
	assert.Equal(t, entities.RiskHigh, c.Route.RiskLevel)
	assert.NotNil(t, g.OutgoingEdge(caravan.ID, entities.RelationPartnership))
	assert.NotNil(t, g.OutgoingEdge(caravan.ID, entities.RelationTrade))
	assert.Equal(t, 2, world.CountInTransit(g))

	catalog, ok, err := world.EventCatalog(g)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, entities.DefaultEventCatalog(), catalog)
}

func TestWorldSeeder_Seed_Idempotent(t *testing.T) {
	g := newTestGraph()
	seeder := NewWorldSeeder()

	_, err := seeder.Seed(g)
	require.NoError(t, err)
	require.NoError(t, world.SetCapital(g.FindEntity(entities.EntityMerchant, entities.PlayerName), 1234, timeNow()))

	result, err := seeder.Seed(g)
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{}, result)
	assert.Len(t, g.Entities, 8)
	assert.Len(t, g.Relationships, 5)
	assert.Equal(t, 1234.0, capitalOf(t, g.FindEntity(entities.EntityMerchant, entities.PlayerName)))
}
