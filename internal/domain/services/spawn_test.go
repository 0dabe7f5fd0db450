package services

import (
	"log/slog"
	"testing"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/mocks"
	"github.com/ersonp/silkroad/internal/domain/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpawner(rng *mocks.Random) *CaravanSpawner {
	return NewCaravanSpawner(rng, slog.New(slog.DiscardHandler))
}

func TestCaravanSpawner_Spawn_SkipsWhileInTransit(t *testing.T) {
	w := newSilkWorld(t)

	spawned, err := newTestSpawner(mocks.NewRandom()).Spawn(w.graph)
	require.NoError(t, err)
	assert.Nil(t, spawned)
}

func TestCaravanSpawner_Spawn(t *testing.T) {
	tests := []struct {
		name      string
		pick      int
		wantGoods []string
	}{
		{name: "one caravan", pick: 0, wantGoods: []string{"Silk"}},
		{name: "two caravans alternate templates", pick: 1, wantGoods: []string{"Silk", "Spices"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newSilkWorld(t)
			require.NoError(t, world.SetStatus(w.caravan, entities.StatusCompleted, timeNow()))
			rng := mocks.NewRandom()
			rng.Ints = []int{tt.pick}

			spawned, err := newTestSpawner(rng).Spawn(w.graph)
			require.NoError(t, err)
			require.Len(t, spawned, len(tt.wantGoods))

			for i, caravan := range spawned {
				c, err := world.LoadCaravan(caravan)
				require.NoError(t, err)
				assert.Equal(t, tt.wantGoods[i], c.Goods.Type)
				assert.Equal(t, entities.StatusInTransit, c.Status)
				assert.True(t, caravan.IsProvisional())
				assert.Regexp(t, `^SG-\d+$`, caravan.Name)

				toll := w.graph.OutgoingEdge(caravan.ID, entities.RelationTollNegotiation)
				require.NotNil(t, toll)
				assert.Equal(t, w.tribe.ID, toll.TargetEntityID)
				require.NotNil(t, w.graph.OutgoingEdge(caravan.ID, entities.RelationTrade))
			}
			assert.Equal(t, len(tt.wantGoods), world.CountInTransit(w.graph))
		})
	}
}

func TestCaravanSpawner_Spawn_CreatesMissingMarket(t *testing.T) {
	g := newTestGraph()
	rng := mocks.NewRandom()
	rng.Ints = []int{1}

	spawned, err := newTestSpawner(rng).Spawn(g)
	require.NoError(t, err)
	require.Len(t, spawned, 2)

	damascus := g.FindEntity(entities.EntityMarket, entities.DamascusMarketName)
	require.NotNil(t, damascus)
	assert.Equal(t, entities.DefaultDemand(entities.DamascusMarketName), demandOf(t, damascus))

	trade := g.OutgoingEdge(spawned[1].ID, entities.RelationTrade)
	require.NotNil(t, trade)
	assert.Equal(t, damascus.ID, trade.TargetEntityID)
	assert.Nil(t, g.OutgoingEdge(spawned[0].ID, entities.RelationTollNegotiation), "no tribe, no toll edge")
}
