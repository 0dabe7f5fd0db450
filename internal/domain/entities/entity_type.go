package entities

import "slices"

// KnownEntityTypes lists every entity type the simulation reads.
var KnownEntityTypes = []EntityType{
	EntityMerchant,
	EntityCaravan,
	EntityTribe,
	EntityRuler,
	EntityMarket,
}

// KnownRelationshipTypes lists every relationship type the simulation reads.
var KnownRelationshipTypes = []RelationshipType{
	RelationPartnership,
	RelationTollNegotiation,
	RelationTrade,
}

// IsValid reports whether t is a known entity type.
func (t EntityType) IsValid() bool {
	return slices.Contains(KnownEntityTypes, t)
}

// IsValid reports whether t is a known relationship type.
func (t RelationshipType) IsValid() bool {
	return slices.Contains(KnownRelationshipTypes, t)
}
