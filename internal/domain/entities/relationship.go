package entities

import "time"

// RelationshipType defines the kind of directed edge between entities.
type RelationshipType string

const (
	RelationPartnership     RelationshipType = "Partnership"
	RelationTollNegotiation RelationshipType = "TollNegotiation"
	RelationTrade           RelationshipType = "Trade"
)

// Relationship is a directed, typed edge scoped to a game instance.
// At most one edge exists per (instance, source, target, type).
type Relationship struct {
	ID             int64            `json:"id"`
	GameInstanceID int64            `json:"game_instance_id"`
	SourceEntityID int64            `json:"source_entity_id"`
	TargetEntityID int64            `json:"target_entity_id"`
	Type           RelationshipType `json:"relationship_type"`
	CreatedAt      time.Time        `json:"created_at"`
}
