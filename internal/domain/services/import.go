package services

import (
	"context"
	"fmt"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/domain/ports"
	"github.com/ersonp/silkroad/internal/domain/world"
	"github.com/ersonp/silkroad/internal/infrastructure/parsers"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool // Validate without saving
}

// ImportError represents an error for a specific record during import.
type ImportError struct {
	Line    int    // Line number (1-indexed, 0 if unknown)
	Field   string // Which field has the error
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ImportError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []ImportError
}

// ImportService applies scenario records to a game instance.
type ImportService struct {
	store ports.WorldStore
}

// NewImportService creates a new import service.
func NewImportService(store ports.WorldStore) *ImportService {
	return &ImportService{
		store: store,
	}
}

// Import applies records to the instance in order and persists the result.
// Invalid records are reported and skipped; valid ones still apply.
func (s *ImportService) Import(ctx context.Context, instanceID int64, records []parsers.RawRecord, opts ImportOptions) (*ImportResult, error) {
	graph, err := s.store.LoadInstance(ctx, instanceID)
	if err != nil {
		return nil, fmt.Errorf("loading instance: %w", err)
	}
	if graph == nil {
		return nil, fmt.Errorf("%w: %d", ErrInstanceNotFound, instanceID)
	}

	result := ApplyRecords(graph, records)

	if opts.DryRun || result.Imported == 0 {
		return result, nil
	}

	if err := s.store.Persist(ctx, graph); err != nil {
		return nil, fmt.Errorf("saving instance: %w", err)
	}
	return result, nil
}

// ApplyRecords applies records to graph in memory.
func ApplyRecords(graph *entities.Graph, records []parsers.RawRecord) *ImportResult {
	result := &ImportResult{}

	for i := range records {
		raw := &records[i]
		lineNum := raw.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}

		applied, ierr := applyRecord(graph, raw, lineNum)
		switch {
		case ierr != nil:
			result.Errors = append(result.Errors, *ierr)
		case applied:
			result.Imported++
		default:
			result.Skipped++
		}
	}

	return result
}

// applyRecord applies one record. It reports false without an error when
// the record is already present.
func applyRecord(graph *entities.Graph, raw *parsers.RawRecord, lineNum int) (bool, *ImportError) {
	now := timeNow()

	switch raw.Kind {
	case parsers.KindEntity:
		if raw.EntityType == "" {
			return false, missingField(lineNum, "entity_type")
		}
		if raw.Name == "" {
			return false, missingField(lineNum, "name")
		}
		entityType := entities.EntityType(raw.EntityType)
		if !entityType.IsValid() {
			return false, &ImportError{
				Line:    lineNum,
				Field:   "entity_type",
				Value:   raw.EntityType,
				Message: fmt.Sprintf("invalid entity type %q (valid: %v)", raw.EntityType, entities.KnownEntityTypes),
			}
		}
		if graph.FindEntity(entityType, raw.Name) != nil {
			return false, nil
		}
		graph.AddEntity(entityType, raw.Name, now)
		return true, nil

	case parsers.KindAttribute:
		if raw.Key == "" {
			return false, missingField(lineNum, "key")
		}
		if len(raw.Value) == 0 {
			return false, missingField(lineNum, "value")
		}
		e, ierr := entityByName(graph, raw.EntityType, raw.Name, "name", lineNum)
		if ierr != nil {
			return false, ierr
		}
		key := entities.AttributeKey(raw.Key)
		if err := world.ValidateAttribute(key, raw.Value); err != nil {
			return false, &ImportError{Line: lineNum, Field: "value", Value: string(raw.Value), Message: err.Error()}
		}
		e.SetAttribute(key, raw.Value, now)
		return true, nil

	case parsers.KindRelationship:
		if raw.Relationship == "" {
			return false, missingField(lineNum, "relationship")
		}
		relType := entities.RelationshipType(raw.Relationship)
		if !relType.IsValid() {
			return false, &ImportError{
				Line:    lineNum,
				Field:   "relationship",
				Value:   raw.Relationship,
				Message: fmt.Sprintf("invalid relationship type %q (valid: %v)", raw.Relationship, entities.KnownRelationshipTypes),
			}
		}
		source, ierr := entityByName(graph, raw.EntityType, raw.Name, "name", lineNum)
		if ierr != nil {
			return false, ierr
		}
		target, ierr := entityByName(graph, raw.TargetType, raw.Target, "target", lineNum)
		if ierr != nil {
			return false, ierr
		}
		_, added := graph.AddRelationship(source.ID, target.ID, relType, now)
		return added, nil

	case parsers.KindState:
		if raw.Key == "" {
			return false, missingField(lineNum, "key")
		}
		if len(raw.Value) == 0 {
			return false, missingField(lineNum, "value")
		}
		key := entities.StateKey(raw.Key)
		if err := world.ValidateState(key, raw.Value); err != nil {
			return false, &ImportError{Line: lineNum, Field: "value", Value: string(raw.Value), Message: err.Error()}
		}
		graph.SetState(key, raw.Value, now)
		return true, nil

	default:
		return false, &ImportError{
			Line:    lineNum,
			Field:   "kind",
			Value:   raw.Kind,
			Message: fmt.Sprintf("invalid kind %q (valid: entity, attribute, relationship, state)", raw.Kind),
		}
	}
}

func missingField(lineNum int, field string) *ImportError {
	return &ImportError{Line: lineNum, Field: field, Message: "missing required field: " + field}
}

// entityByName finds the first entity with the given name, restricted to
// entityType when it is set.
func entityByName(graph *entities.Graph, entityType, name, field string, lineNum int) (*entities.Entity, *ImportError) {
	if name == "" {
		return nil, missingField(lineNum, field)
	}
	for _, e := range graph.Entities {
		if e.Name == name && (entityType == "" || string(e.Type) == entityType) {
			return e, nil
		}
	}
	if entityType != "" {
		return nil, &ImportError{Line: lineNum, Field: field, Value: name, Message: fmt.Sprintf("unknown %s %q", entityType, name)}
	}
	return nil, &ImportError{Line: lineNum, Field: field, Value: name, Message: fmt.Sprintf("unknown entity %q", name)}
}
