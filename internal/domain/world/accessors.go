package world

import (
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

// Goods returns the caravan's cargo.
func Goods(e *entities.Entity) (entities.Goods, bool, error) {
	return DecodeAttribute[entities.Goods](e, entities.AttrGoods)
}

// Route returns the caravan's route.
func Route(e *entities.Entity) (entities.Route, bool, error) {
	return DecodeAttribute[entities.Route](e, entities.AttrRoute)
}

// Investment returns the capital committed to the caravan.
func Investment(e *entities.Entity) (float64, bool, error) {
	v, ok, err := DecodeAttribute[entities.Investment](e, entities.AttrInvestment)
	return v.Value, ok, err
}

// Status returns the caravan's status.
func Status(e *entities.Entity) (entities.CaravanStatus, bool, error) {
	v, ok, err := DecodeAttribute[entities.Status](e, entities.AttrStatus)
	return v.Value, ok, err
}

// Capital returns a merchant's funds.
func Capital(e *entities.Entity) (float64, bool, error) {
	v, ok, err := DecodeAttribute[entities.Capital](e, entities.AttrCapital)
	return v.Value, ok, err
}

// Payoff returns the recorded payoff of a completed caravan.
func Payoff(e *entities.Entity) (float64, bool, error) {
	v, ok, err := DecodeAttribute[entities.Payoff](e, entities.AttrPayoff)
	return v.Value, ok, err
}

// Demand returns a market's demand table.
func Demand(e *entities.Entity) (entities.Demand, bool, error) {
	return DecodeAttribute[entities.Demand](e, entities.AttrDemand)
}

// MarketPrices returns the instance-wide price aggregate.
func MarketPrices(g *entities.Graph) (entities.MarketPrices, bool, error) {
	return DecodeState[entities.MarketPrices](g, entities.StateMarketPrices)
}

// EventCatalog returns the stored hazard catalog.
func EventCatalog(g *entities.Graph) (entities.EventCatalog, bool, error) {
	return DecodeState[entities.EventCatalog](g, entities.StateRandomEvents)
}

// SetStatus stores a caravan status.
func SetStatus(e *entities.Entity, status entities.CaravanStatus, now time.Time) error {
	return SetAttribute(e, entities.AttrStatus, entities.Status{Value: status}, now)
}

// SetCapital stores a merchant's funds.
func SetCapital(e *entities.Entity, value float64, now time.Time) error {
	return SetAttribute(e, entities.AttrCapital, entities.Capital{Value: value}, now)
}

// SetPayoff records a caravan's payoff.
func SetPayoff(e *entities.Entity, value float64, now time.Time) error {
	return SetAttribute(e, entities.AttrPayoff, entities.Payoff{Value: value}, now)
}

// SetDemand stores a market's demand table.
func SetDemand(e *entities.Entity, demand entities.Demand, now time.Time) error {
	return SetAttribute(e, entities.AttrDemand, demand, now)
}

// SetMarketPrices overwrites the instance-wide price aggregate.
func SetMarketPrices(g *entities.Graph, prices entities.MarketPrices, now time.Time) error {
	return SetState(g, entities.StateMarketPrices, prices, now)
}

// SetEventCatalog overwrites the stored hazard catalog.
func SetEventCatalog(g *entities.Graph, catalog entities.EventCatalog, now time.Time) error {
	return SetState(g, entities.StateRandomEvents, catalog, now)
}
