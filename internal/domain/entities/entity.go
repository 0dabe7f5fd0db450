package entities

import (
	"encoding/json"
	"time"
)

// EntityType categorizes a game object.
type EntityType string

const (
	EntityMerchant EntityType = "Merchant"
	EntityCaravan  EntityType = "Caravan"
	EntityTribe    EntityType = "Tribe"
	EntityRuler    EntityType = "Ruler"
	EntityMarket   EntityType = "Market"
)

// AttributeKey names a value attached to an entity.
type AttributeKey string

const (
	AttrGoods      AttributeKey = "Goods"
	AttrRoute      AttributeKey = "Route"
	AttrInvestment AttributeKey = "Investment"
	AttrStatus     AttributeKey = "Status"
	AttrCapital    AttributeKey = "Capital"
	AttrDemand     AttributeKey = "Demand"
	AttrPayoff     AttributeKey = "Payoff"
	AttrReputation AttributeKey = "Reputation"
	AttrTollRate   AttributeKey = "TollRate"
	AttrAggression AttributeKey = "Aggression"
	AttrTaxRate    AttributeKey = "TaxRate"
)

// Entity is a typed game object. Provisional entities that have not been
// persisted yet carry a negative ID.
type Entity struct {
	ID             int64                       `json:"id"`
	GameInstanceID int64                       `json:"game_instance_id"`
	Type           EntityType                  `json:"entity_type"`
	Name           string                      `json:"name"`
	CreatedAt      time.Time                   `json:"created_at"`
	Attributes     map[AttributeKey]*Attribute `json:"attributes"`
}

// Attribute is a semi-structured value keyed by (entity, key).
type Attribute struct {
	ID        int64           `json:"id"`
	EntityID  int64           `json:"entity_id"`
	Key       AttributeKey    `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Attribute returns the attribute stored under key, or nil when absent.
func (e *Entity) Attribute(key AttributeKey) *Attribute {
	return e.Attributes[key]
}

// SetAttribute overwrites the value under key in place, creating the
// attribute when it does not exist yet.
func (e *Entity) SetAttribute(key AttributeKey, value json.RawMessage, now time.Time) *Attribute {
	if e.Attributes == nil {
		e.Attributes = make(map[AttributeKey]*Attribute)
	}
	attr, ok := e.Attributes[key]
	if !ok {
		attr = &Attribute{EntityID: e.ID, Key: key}
		e.Attributes[key] = attr
	}
	attr.Value = value
	attr.UpdatedAt = now
	return attr
}

// IsProvisional reports whether the entity has not been persisted yet.
func (e *Entity) IsProvisional() bool {
	return e.ID < 0
}
