package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Resolution policy.
const (
	partnerCooperationProbability = 0.7
	tollPaymentProbability        = 0.8
	defaultRiskProbability        = 0.2
	defaultUnitPrice              = 10.0
	cooperationShare              = 0.5
)

var riskProbabilities = map[entities.RiskLevel]float64{
	entities.RiskHigh:   0.4,
	entities.RiskMedium: 0.2,
	entities.RiskLow:    0.1,
}

// lossPercents maps event impact text to the percentage of goods lost.
var lossPercents = map[string]int{
	entities.ImpactLoseHalf:   50,
	entities.ImpactLoseThirty: 30,
}

var (
	// ErrSkipped wraps every reason a caravan was left unresolved this turn.
	ErrSkipped = errors.New("caravan skipped")
	// ErrNotInTransit is returned for caravans that already completed.
	ErrNotInTransit = errors.New("caravan is not in transit")
	// ErrNoTradeRoute is returned when a caravan has no Trade edge.
	ErrNoTradeRoute = errors.New("no trade relationship")
	// ErrNoMarket is returned when a Trade edge does not lead to a market.
	ErrNoMarket = errors.New("trade target is not a market")
)

func skip(reason error) error {
	return fmt.Errorf("%w: %w", ErrSkipped, reason)
}

// Outcome describes how one caravan's turn was resolved.
type Outcome struct {
	CaravanID int64  `json:"caravan_id"`
	Caravan   string `json:"caravan"`
	Good      string `json:"good"`

	Partnership       bool `json:"partnership"`
	PlayerCooperated  bool `json:"player_cooperated"`
	PartnerCooperated bool `json:"partner_cooperated"`

	TollNegotiated bool `json:"toll_negotiated"`
	PaidToll       bool `json:"paid_toll"`

	RiskProbability float64 `json:"risk_probability"`
	EventTriggered  bool    `json:"event_triggered"`
	Event           string  `json:"event,omitempty"`
	LossFraction    float64 `json:"loss_fraction"`

	Market            string  `json:"market"`
	Quantity          int     `json:"quantity"`
	RemainingQuantity int     `json:"remaining_quantity"`
	UnitPrice         float64 `json:"unit_price"`
	DefaultPrice      bool    `json:"default_price"`
	BasePayoff        float64 `json:"base_payoff"`
	Payoff            float64 `json:"payoff"`
	Investment        float64 `json:"investment"`

	CapitalApplied bool    `json:"capital_applied"`
	CapitalBefore  float64 `json:"capital_before"`
	CapitalAfter   float64 `json:"capital_after"`
}

// CapitalDelta is the net change to the player's capital.
func (o *Outcome) CapitalDelta() float64 {
	return o.Payoff - o.Investment
}

// CaravanResolver resolves one caravan's turn: partnership, toll, hazard,
// sale and settlement.
type CaravanResolver struct {
	rng        ports.Random
	playerName string
	logger     *slog.Logger
}

// NewCaravanResolver creates a resolver that settles payoffs against the
// merchant named playerName.
func NewCaravanResolver(rng ports.Random, playerName string, logger *slog.Logger) *CaravanResolver {
	if playerName == "" {
		playerName = entities.PlayerName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CaravanResolver{
		rng:        rng,
		playerName: playerName,
		logger:     logger,
	}
}

// Resolve resolves caravan against graph. On success the caravan is marked
// Completed, its Payoff is recorded and the player's Capital is adjusted.
// A skip returns an error wrapping ErrSkipped and leaves the graph untouched.
func (r *CaravanResolver) Resolve(graph *entities.Graph, caravan *entities.Entity, catalog entities.EventCatalog) (*Outcome, error) {
	c, err := world.LoadCaravan(caravan)
	if err != nil {
		return nil, skip(err)
	}
	if c.Status != entities.StatusInTransit {
		return nil, skip(ErrNotInTransit)
	}

	out := &Outcome{
		CaravanID:  caravan.ID,
		Caravan:    caravan.Name,
		Good:       c.Goods.Type,
		Quantity:   c.Goods.Quantity,
		Investment: c.Investment,
	}

	if graph.OutgoingEdge(caravan.ID, entities.RelationPartnership) != nil {
		out.Partnership = true
		out.PlayerCooperated = true
		out.PartnerCooperated = r.rng.Float64() < partnerCooperationProbability
	}

	if graph.OutgoingEdge(caravan.ID, entities.RelationTollNegotiation) != nil {
		out.TollNegotiated = true
		out.PaidToll = r.rng.Float64() < tollPaymentProbability
	}

	out.RiskProbability = riskProbability(c.Route.RiskLevel)
	out.EventTriggered = r.rng.Float64() < out.RiskProbability

	lossPercent := 0
	if out.EventTriggered && !out.PaidToll && len(catalog) > 0 {
		name, detail := r.pickEvent(catalog)
		out.Event = name
		lossPercent = lossPercents[detail.Impact]
		out.LossFraction = float64(lossPercent) / 100
	}

	market, demand, err := r.tradeMarket(graph, caravan)
	if err != nil {
		return nil, skip(err)
	}
	out.Market = market.Name

	out.UnitPrice = defaultUnitPrice
	if gd, ok := demand[c.Goods.Type]; ok {
		out.UnitPrice = gd.Price
	} else {
		out.DefaultPrice = true
		r.logger.Warn("good not in market demand, using default price",
			"caravan", caravan.Name, "market", market.Name, "good", c.Goods.Type, "price", defaultUnitPrice)
	}

	out.RemainingQuantity = remainingQuantity(c.Goods.Quantity, lossPercent)
	out.BasePayoff = float64(out.RemainingQuantity) * out.UnitPrice
	out.Payoff = out.BasePayoff
	if out.Partnership {
		out.Payoff = partnershipPayoff(out.BasePayoff, out.PlayerCooperated, out.PartnerCooperated)
	}

	if err := r.settle(graph, caravan, out); err != nil {
		return nil, err
	}
	return out, nil
}

// tradeMarket follows the caravan's Trade edge and decodes the market's
// demand table.
func (r *CaravanResolver) tradeMarket(graph *entities.Graph, caravan *entities.Entity) (*entities.Entity, entities.Demand, error) {
	edge := graph.OutgoingEdge(caravan.ID, entities.RelationTrade)
	if edge == nil {
		return nil, nil, ErrNoTradeRoute
	}
	market := graph.Entity(edge.TargetEntityID)
	if market == nil || market.Type != entities.EntityMarket {
		return nil, nil, ErrNoMarket
	}
	demand, ok, err := world.Demand(market)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s on %s", world.ErrMissingAttribute, entities.AttrDemand, market.Name)
	}
	return market, demand, nil
}

// settle applies the outcome to the graph: capital first, then status and
// payoff.
func (r *CaravanResolver) settle(graph *entities.Graph, caravan *entities.Entity, out *Outcome) error {
	now := timeNow()

	if err := r.applyCapital(graph, caravan, out, now); err != nil {
		return err
	}
	if err := world.SetStatus(caravan, entities.StatusCompleted, now); err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	if err := world.SetPayoff(caravan, out.Payoff, now); err != nil {
		return fmt.Errorf("recording payoff: %w", err)
	}
	return nil
}

// applyCapital credits payoff minus investment to the player. A missing
// player or unreadable capital is reported and leaves capital unchanged.
func (r *CaravanResolver) applyCapital(graph *entities.Graph, caravan *entities.Entity, out *Outcome, now time.Time) error {
	player := graph.FindEntity(entities.EntityMerchant, r.playerName)
	if player == nil {
		r.logger.Warn("player merchant not found, capital unchanged", "caravan", caravan.Name, "player", r.playerName)
		return nil
	}

	capital, ok, err := world.Capital(player)
	if err != nil {
		r.logger.Warn("player capital unreadable, capital unchanged", "caravan", caravan.Name, "error", err)
		return nil
	}
	if !ok {
		r.logger.Warn("player has no capital, capital unchanged", "caravan", caravan.Name, "player", player.Name)
		return nil
	}

	out.CapitalBefore = capital
	out.CapitalAfter = capital + out.Payoff - out.Investment
	if err := world.SetCapital(player, out.CapitalAfter, now); err != nil {
		return fmt.Errorf("updating capital: %w", err)
	}
	out.CapitalApplied = true
	return nil
}

// pickEvent selects one catalog entry uniformly. Entry probabilities do
// not weight the pick.
func (r *CaravanResolver) pickEvent(catalog entities.EventCatalog) (string, entities.EventDetail) {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	name := names[r.rng.IntN(len(names))]
	return name, catalog[name]
}

// remainingQuantity returns floor(quantity * (100-lossPercent) / 100)
// without overflowing for large quantities.
func remainingQuantity(quantity, lossPercent int) int {
	keep := 100 - lossPercent
	return quantity/100*keep + quantity%100*keep/100
}

func riskProbability(level entities.RiskLevel) float64 {
	if p, ok := riskProbabilities[level]; ok {
		return p
	}
	return defaultRiskProbability
}

// partnershipPayoff applies the cooperation matrix. The player always
// cooperates today; a defecting player falls through to the full payoff.
func partnershipPayoff(base float64, playerCooperates, partnerCooperates bool) float64 {
	switch {
	case playerCooperates && partnerCooperates:
		return base * cooperationShare
	case playerCooperates:
		return 0
	default:
		return base
	}
}
