package entities

// RiskLevel grades the hazard of a caravan route.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "High"
	RiskMedium RiskLevel = "Medium"
	RiskLow    RiskLevel = "Low"
)

// CaravanStatus is the lifecycle state of a caravan.
type CaravanStatus string

const (
	StatusInTransit CaravanStatus = "InTransit"
	StatusCompleted CaravanStatus = "Completed"
)

// Goods is the cargo a caravan carries.
type Goods struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Route is the path a caravan travels.
type Route struct {
	Start     string    `json:"start"`
	End       string    `json:"end"`
	RiskLevel RiskLevel `json:"riskLevel"`
}

// Investment is the capital a merchant committed to a caravan.
type Investment struct {
	Value float64 `json:"value"`
}

// Status wraps a caravan status for storage.
type Status struct {
	Value CaravanStatus `json:"value"`
}

// Capital is a merchant's funds.
type Capital struct {
	Value float64 `json:"value"`
}

// Payoff records the proceeds of a completed caravan.
type Payoff struct {
	Value float64 `json:"value"`
}

// Scalar is a single numeric attribute such as Reputation or TollRate.
type Scalar struct {
	Value float64 `json:"value"`
}

// GoodDemand is the price and capacity of one good at a market.
type GoodDemand struct {
	Price       float64 `json:"price"`
	MaxQuantity int     `json:"maxQuantity"`
}

// Demand maps good names to their market demand.
type Demand map[string]GoodDemand

// MarketPrices is the instance-wide price table: market, then good, to price.
type MarketPrices map[string]map[string]float64

// EventDetail describes one hazard in the event catalog. Probability is
// descriptive only and is not used to weight selection.
type EventDetail struct {
	Probability float64 `json:"probability"`
	Impact      string  `json:"impact"`
}

// EventCatalog maps event names to their details.
type EventCatalog map[string]EventDetail
