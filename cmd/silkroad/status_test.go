package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/silkroad/internal/application/handlers"
	"github.com/ersonp/silkroad/internal/domain/entities"
)

func TestPrintStatus_Unreadable(t *testing.T) {
	status := &handlers.WorldStatus{
		Instance: entities.GameInstance{ID: 3, GameType: entities.GameTypeSilkRoad},
		Merchants: []handlers.MerchantStatus{
			{Name: "Player", Unreadable: []string{"Capital"}},
			{Name: "Rival1", Capital: 800, Reputation: 0.6},
		},
		Caravans: []handlers.CaravanStatus{
			{Name: "SG-001", Status: entities.StatusInTransit, Unreadable: []string{"Goods", "Route"}},
		},
	}

	var buf bytes.Buffer
	printStatus(&buf, status)

	out := buf.String()
	assert.Contains(t, out, "(unreadable: Capital)")
	assert.Contains(t, out, "(unreadable: Goods, Route)")
	assert.Contains(t, out, "capital       800.00")
	assert.NotContains(t, out, "Rival1     capital       800.00  reputation 0.60  (unreadable")
}

func TestUnreadableSuffix(t *testing.T) {
	assert.Empty(t, unreadableSuffix(nil))
	assert.Equal(t, "  (unreadable: Demand)", unreadableSuffix([]string{"Demand"}))
}
