// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
)

// InitHandler handles storage initialization.
type InitHandler struct {
	store ports.WorldStore
}

// NewInitHandler creates a new init handler.
func NewInitHandler(store ports.WorldStore) *InitHandler {
	return &InitHandler{
		store: store,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	Instance entities.GameInstance
	Created  bool
}

// Handle creates the schema and returns the active instance of gameType,
// creating one when none exists.
func (h *InitHandler) Handle(ctx context.Context, gameType string) (*InitResult, error) {
	if err := h.store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	existing, err := h.store.FindActiveInstance(ctx, gameType)
	if err != nil {
		return nil, fmt.Errorf("finding active instance: %w", err)
	}
	if existing != nil {
		return &InitResult{Instance: *existing}, nil
	}

	created, err := h.store.CreateInstance(ctx, gameType, 0)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	return &InitResult{Instance: *created, Created: true}, nil
}
