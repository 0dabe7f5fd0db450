package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/infrastructure/parsers"
)

func TestExportRecords(t *testing.T) {
	graph := newTestGraph()
	_, err := NewWorldSeeder().Seed(graph)
	require.NoError(t, err)

	records := ExportRecords(graph)

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Kind]++
	}
	assert.Equal(t, 8, counts[parsers.KindEntity])
	assert.Equal(t, 5, counts[parsers.KindRelationship])
	assert.Equal(t, 2, counts[parsers.KindState])
	assert.Equal(t, parsers.KindEntity, records[0].Kind)
	assert.Equal(t, parsers.KindState, records[len(records)-1].Kind)
	assert.Equal(t, len(records), records[len(records)-1].LineNum)
}

func TestExportRecords_RoundTrip(t *testing.T) {
	original := newTestGraph()
	_, err := NewWorldSeeder().Seed(original)
	require.NoError(t, err)

	rebuilt := newTestGraph()
	result := ApplyRecords(rebuilt, ExportRecords(original))
	require.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Skipped)

	require.Len(t, rebuilt.Entities, len(original.Entities))
	require.Len(t, rebuilt.Relationships, len(original.Relationships))
	require.Len(t, rebuilt.States, len(original.States))

	for _, e := range original.Entities {
		got := rebuilt.FindEntity(e.Type, e.Name)
		require.NotNil(t, got, e.Name)
		for key, a := range e.Attributes {
			require.NotNil(t, got.Attribute(key), "%s.%s", e.Name, key)
			assert.JSONEq(t, string(a.Value), string(got.Attribute(key).Value))
		}
	}

	caravan := rebuilt.FindEntity(entities.EntityCaravan, "SG-001")
	edge := rebuilt.OutgoingEdge(caravan.ID, entities.RelationTrade)
	require.NotNil(t, edge)
	assert.Equal(t, entities.ChangAnMarketName, rebuilt.Entity(edge.TargetEntityID).Name)
}

func TestExportRecords_RoundTripSharedNames(t *testing.T) {
	original := newTestGraph()
	merchant := addEntity(t, original, entities.EntityMerchant, "Kashgar", map[entities.AttributeKey]any{
		entities.AttrCapital: entities.Capital{Value: 300},
	})
	market := addEntity(t, original, entities.EntityMarket, "Kashgar", map[entities.AttributeKey]any{
		entities.AttrDemand: entities.DefaultDemand("Kashgar"),
	})
	caravan := addEntity(t, original, entities.EntityCaravan, "SG-010", nil)
	addEdge(original, caravan, market, entities.RelationTrade)
	addEdge(original, market, merchant, entities.RelationPartnership)

	rebuilt := newTestGraph()
	result := ApplyRecords(rebuilt, ExportRecords(original))
	require.Empty(t, result.Errors)

	gotMerchant := rebuilt.FindEntity(entities.EntityMerchant, "Kashgar")
	gotMarket := rebuilt.FindEntity(entities.EntityMarket, "Kashgar")
	gotCaravan := rebuilt.FindEntity(entities.EntityCaravan, "SG-010")
	require.NotNil(t, gotMerchant)
	require.NotNil(t, gotMarket)
	require.NotNil(t, gotCaravan)

	assert.NotNil(t, gotMerchant.Attribute(entities.AttrCapital))
	assert.Nil(t, gotMerchant.Attribute(entities.AttrDemand))
	assert.NotNil(t, gotMarket.Attribute(entities.AttrDemand))
	assert.Nil(t, gotMarket.Attribute(entities.AttrCapital))

	trade := rebuilt.OutgoingEdge(gotCaravan.ID, entities.RelationTrade)
	require.NotNil(t, trade)
	assert.Equal(t, gotMarket.ID, trade.TargetEntityID)

	partner := rebuilt.OutgoingEdge(gotMarket.ID, entities.RelationPartnership)
	require.NotNil(t, partner)
	assert.Equal(t, gotMerchant.ID, partner.TargetEntityID)
}
