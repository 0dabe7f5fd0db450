// Package world is the decode layer between the generic game graph and the
// typed values the turn engine works with. Raw JSON payloads do not travel
// past this package.
package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/silkroad/internal/domain/entities"
)

var (
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrMalformed is returned when a stored payload does not match its shape.
	ErrMalformed = errors.New("malformed value")
)

// DecodeAttribute decodes the attribute stored under key on e. The boolean
// is false when the attribute is absent; the error is non-nil when it is
// present but does not match its registered shape.
func DecodeAttribute[T any](e *entities.Entity, key entities.AttributeKey) (T, bool, error) {
	var zero T
	attr := e.Attribute(key)
	if attr == nil {
		return zero, false, nil
	}
	if err := ValidateAttribute(key, attr.Value); err != nil {
		return zero, true, err
	}
	var v T
	if err := json.Unmarshal(attr.Value, &v); err != nil {
		return zero, true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return v, true, nil
}

// DecodeState decodes the game state stored under key on g, with the same
// absent/malformed contract as DecodeAttribute.
func DecodeState[T any](g *entities.Graph, key entities.StateKey) (T, bool, error) {
	var zero T
	s := g.State(key)
	if s == nil {
		return zero, false, nil
	}
	if err := ValidateState(key, s.Value); err != nil {
		return zero, true, err
	}
	var v T
	if err := json.Unmarshal(s.Value, &v); err != nil {
		return zero, true, fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return v, true, nil
}

// Encode marshals a typed value into its stored form.
func Encode(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	return data, nil
}

// SetAttribute encodes v, checks it against the shape registered for key
// and stores it on e.
func SetAttribute(e *entities.Entity, key entities.AttributeKey, v any, now time.Time) error {
	raw, err := Encode(v)
	if err != nil {
		return err
	}
	if err := ValidateAttribute(key, raw); err != nil {
		return err
	}
	e.SetAttribute(key, raw, now)
	return nil
}

// SetState encodes v, checks it against the shape registered for key and
// stores it on g.
func SetState(g *entities.Graph, key entities.StateKey, v any, now time.Time) error {
	raw, err := Encode(v)
	if err != nil {
		return err
	}
	if err := ValidateState(key, raw); err != nil {
		return err
	}
	g.SetState(key, raw, now)
	return nil
}
