package entities

import (
	"encoding/json"
	"time"
)

// GameTypeSilkRoad is the game type tag handled by the turn engine.
const GameTypeSilkRoad = "silkroad"

// GameInstance is one running game session. It is the root of the graph:
// entities, relationships and game states all belong to exactly one instance.
type GameInstance struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	GameType    string    `json:"game_type"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// StateKey names an instance-wide game state value.
type StateKey string

const (
	StateMarketPrices StateKey = "MarketPrices"
	StateRandomEvents StateKey = "RandomEvents"
)

// GameState is an instance-wide keyed value not owned by any entity.
// At most one state exists per (instance, key).
type GameState struct {
	ID             int64           `json:"id"`
	GameInstanceID int64           `json:"game_instance_id"`
	Key            StateKey        `json:"key"`
	Value          json.RawMessage `json:"value"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
