package world

import (
	"fmt"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

// Caravan is the typed view of a caravan entity with every attribute the
// resolver needs.
type Caravan struct {
	Entity     *entities.Entity
	Goods      entities.Goods
	Route      entities.Route
	Investment float64
	Status     entities.CaravanStatus
}

// LoadCaravan decodes the required caravan attributes. It fails with
// ErrMissingAttribute or ErrMalformed naming the first offending key.
func LoadCaravan(e *entities.Entity) (*Caravan, error) {
	c := &Caravan{Entity: e}

	goods, ok, err := Goods(e)
	if err := required(entities.AttrGoods, ok, err); err != nil {
		return nil, err
	}
	c.Goods = goods

	route, ok, err := Route(e)
	if err := required(entities.AttrRoute, ok, err); err != nil {
		return nil, err
	}
	c.Route = route

	investment, ok, err := Investment(e)
	if err := required(entities.AttrInvestment, ok, err); err != nil {
		return nil, err
	}
	c.Investment = investment

	status, ok, err := Status(e)
	if err := required(entities.AttrStatus, ok, err); err != nil {
		return nil, err
	}
	c.Status = status

	return c, nil
}

func required(key entities.AttributeKey, ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, key)
	}
	return nil
}

// InTransit returns caravans whose Status decodes to InTransit, in graph
// order. Caravans with an unreadable Status are returned too so the resolver
// can report them; completed caravans are not.
func InTransit(g *entities.Graph) []*entities.Entity {
	var result []*entities.Entity
	for _, e := range g.EntitiesOfType(entities.EntityCaravan) {
		status, ok, err := Status(e)
		if !ok {
			continue
		}
		if err != nil || status == entities.StatusInTransit {
			result = append(result, e)
		}
	}
	return result
}

// CountInTransit returns how many caravans are still travelling.
func CountInTransit(g *entities.Graph) int {
	n := 0
	for _, e := range g.EntitiesOfType(entities.EntityCaravan) {
		if status, ok, err := Status(e); ok && err == nil && status == entities.StatusInTransit {
			n++
		}
	}
	return n
}
