package entities

import (
	"encoding/json"
	"time"
)

// Graph is the full sub-graph of one game instance: its entities with their
// attributes, its relationships and its instance-wide states.
type Graph struct {
	Instance      GameInstance    `json:"instance"`
	Entities      []*Entity       `json:"entities"`
	Relationships []*Relationship `json:"relationships"`
	States        []*GameState    `json:"states"`

	nextProvisionalID int64
}

// NewGraph returns an empty graph for the given instance.
func NewGraph(instance GameInstance) *Graph {
	return &Graph{Instance: instance}
}

// Entity returns the entity with the given ID, or nil.
func (g *Graph) Entity(id int64) *Entity {
	for _, e := range g.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// EntitiesOfType returns entities of type t in graph order.
func (g *Graph) EntitiesOfType(t EntityType) []*Entity {
	var result []*Entity
	for _, e := range g.Entities {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// FindEntity returns the first entity of type t with the given name, or nil.
func (g *Graph) FindEntity(t EntityType, name string) *Entity {
	for _, e := range g.Entities {
		if e.Type == t && e.Name == name {
			return e
		}
	}
	return nil
}

// OutgoingEdge returns the first edge of type t leaving sourceID, or nil.
func (g *Graph) OutgoingEdge(sourceID int64, t RelationshipType) *Relationship {
	for _, r := range g.Relationships {
		if r.SourceEntityID == sourceID && r.Type == t {
			return r
		}
	}
	return nil
}

// EdgesOfType returns all edges of type t in graph order.
func (g *Graph) EdgesOfType(t RelationshipType) []*Relationship {
	var result []*Relationship
	for _, r := range g.Relationships {
		if r.Type == t {
			result = append(result, r)
		}
	}
	return result
}

// State returns the game state stored under key, or nil.
func (g *Graph) State(key StateKey) *GameState {
	for _, s := range g.States {
		if s.Key == key {
			return s
		}
	}
	return nil
}

// SetState overwrites the state under key in place, creating it if needed.
func (g *Graph) SetState(key StateKey, value json.RawMessage, now time.Time) *GameState {
	s := g.State(key)
	if s == nil {
		s = &GameState{GameInstanceID: g.Instance.ID, Key: key}
		g.States = append(g.States, s)
	}
	s.Value = value
	s.UpdatedAt = now
	return s
}

// AddEntity appends a provisional entity. The store assigns its real ID
// when the graph is persisted.
func (g *Graph) AddEntity(t EntityType, name string, now time.Time) *Entity {
	g.nextProvisionalID--
	e := &Entity{
		ID:             g.nextProvisionalID,
		GameInstanceID: g.Instance.ID,
		Type:           t,
		Name:           name,
		CreatedAt:      now,
		Attributes:     make(map[AttributeKey]*Attribute),
	}
	g.Entities = append(g.Entities, e)
	return e
}

// AddRelationship appends an edge unless one with the same source, target
// and type already exists. It reports whether an edge was added.
func (g *Graph) AddRelationship(sourceID, targetID int64, t RelationshipType, now time.Time) (*Relationship, bool) {
	for _, r := range g.Relationships {
		if r.SourceEntityID == sourceID && r.TargetEntityID == targetID && r.Type == t {
			return r, false
		}
	}
	r := &Relationship{
		GameInstanceID: g.Instance.ID,
		SourceEntityID: sourceID,
		TargetEntityID: targetID,
		Type:           t,
		CreatedAt:      now,
	}
	g.Relationships = append(g.Relationships, r)
	return r, true
}

// RemapEntityIDs rewrites provisional entity IDs to the IDs assigned by the
// store, including attribute owners and edge endpoints.
func (g *Graph) RemapEntityIDs(ids map[int64]int64) {
	if len(ids) == 0 {
		return
	}
	for _, e := range g.Entities {
		newID, ok := ids[e.ID]
		if !ok {
			continue
		}
		e.ID = newID
		for _, a := range e.Attributes {
			a.EntityID = newID
		}
	}
	for _, r := range g.Relationships {
		if newID, ok := ids[r.SourceEntityID]; ok {
			r.SourceEntityID = newID
		}
		if newID, ok := ids[r.TargetEntityID]; ok {
			r.TargetEntityID = newID
		}
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Instance:          g.Instance,
		Entities:          make([]*Entity, 0, len(g.Entities)),
		Relationships:     make([]*Relationship, 0, len(g.Relationships)),
		States:            make([]*GameState, 0, len(g.States)),
		nextProvisionalID: g.nextProvisionalID,
	}
	for _, e := range g.Entities {
		ec := *e
		ec.Attributes = make(map[AttributeKey]*Attribute, len(e.Attributes))
		for k, a := range e.Attributes {
			ac := *a
			ac.Value = cloneRaw(a.Value)
			ec.Attributes[k] = &ac
		}
		c.Entities = append(c.Entities, &ec)
	}
	for _, r := range g.Relationships {
		rc := *r
		c.Relationships = append(c.Relationships, &rc)
	}
	for _, s := range g.States {
		sc := *s
		sc.Value = cloneRaw(s.Value)
		c.States = append(c.States, &sc)
	}
	return c
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out
}
