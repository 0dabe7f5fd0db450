package entities

// Well-known entity names.
const (
	PlayerName         = "Player"
	RivalName          = "Rival1"
	TurkicTribeName    = "TurkicTribe"
	ChangAnRulerName   = "ChangAnRuler"
	ChangAnMarketName  = "ChangAnMarket"
	DamascusMarketName = "DamascusMarket"
)

// Loss impacts understood by the caravan resolver.
const (
	ImpactLoseHalf   = "Lose 50% goods"
	ImpactLoseThirty = "Lose 30% goods"
)

// DefaultEventCatalog is used when an instance has no stored event catalog.
func DefaultEventCatalog() EventCatalog {
	return EventCatalog{
		"BanditAttack": {Probability: 0.3, Impact: ImpactLoseHalf},
		"Sandstorm":    {Probability: 0.2, Impact: ImpactLoseThirty},
	}
}

// DefaultDemand returns the fallback demand table for a market. ChangAnMarket
// has its own table; every other market gets the Damascus table.
func DefaultDemand(marketName string) Demand {
	if marketName == ChangAnMarketName {
		return Demand{
			"Silk":   {Price: 12, MaxQuantity: 100},
			"Spices": {Price: 8, MaxQuantity: 50},
		}
	}
	return Demand{
		"Silk":   {Price: 30, MaxQuantity: 80},
		"Spices": {Price: 15, MaxQuantity: 40},
	}
}

// DefaultMarketPrices is used when an instance has no stored price aggregate.
func DefaultMarketPrices() MarketPrices {
	return MarketPrices{
		"ChangAn":  {"Silk": 12, "Spices": 8},
		"Damascus": {"Silk": 30, "Spices": 15},
	}
}
