package services

import (
	"log/slog"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/world"
)

// EventCatalogService loads the hazard catalog of an instance.
type EventCatalogService struct {
	logger *slog.Logger
}

// NewEventCatalogService creates a new event catalog service.
func NewEventCatalogService(logger *slog.Logger) *EventCatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventCatalogService{logger: logger}
}

// Load returns the stored RandomEvents catalog, or the default catalog when
// none is stored or the stored one is unreadable or empty.
func (s *EventCatalogService) Load(graph *entities.Graph) entities.EventCatalog {
	catalog, ok, err := world.EventCatalog(graph)
	switch {
	case err != nil:
		s.logger.Warn("event catalog unreadable, using defaults", "instance", graph.Instance.ID, "error", err)
	case !ok:
		s.logger.Warn("no event catalog stored, using defaults", "instance", graph.Instance.ID)
	case len(catalog) == 0:
		s.logger.Warn("event catalog empty, using defaults", "instance", graph.Instance.ID)
	default:
		return catalog
	}
	return entities.DefaultEventCatalog()
}
