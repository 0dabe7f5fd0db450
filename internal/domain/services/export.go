package services

import (
	"sort"

	"github.com/ersonp/silkroad/internal/domain/entities"
	"github.com/ersonp/silkroad/internal/infrastructure/parsers"
)

// ExportRecords flattens graph into import records: entities first, then
// their attributes, relationships and states. Applying the result to an
// empty instance rebuilds the same graph.
func ExportRecords(graph *entities.Graph) []parsers.RawRecord {
	var records []parsers.RawRecord

	for _, e := range graph.Entities {
		records = append(records, parsers.RawRecord{
			Kind:       parsers.KindEntity,
			EntityType: string(e.Type),
			Name:       e.Name,
		})
	}

	for _, e := range graph.Entities {
		keys := make([]string, 0, len(e.Attributes))
		for k := range e.Attributes {
			keys = append(keys, string(k))
		}
		sort.Strings(keys)
		for _, k := range keys {
			records = append(records, parsers.RawRecord{
				Kind:       parsers.KindAttribute,
				EntityType: string(e.Type),
				Name:       e.Name,
				Key:        k,
				Value:      e.Attributes[entities.AttributeKey(k)].Value,
			})
		}
	}

	for _, r := range graph.Relationships {
		source, target := graph.Entity(r.SourceEntityID), graph.Entity(r.TargetEntityID)
		if source == nil || target == nil {
			continue
		}
		records = append(records, parsers.RawRecord{
			Kind:         parsers.KindRelationship,
			EntityType:   string(source.Type),
			Name:         source.Name,
			Target:       target.Name,
			TargetType:   string(target.Type),
			Relationship: string(r.Type),
		})
	}

	for _, s := range graph.States {
		records = append(records, parsers.RawRecord{
			Kind:  parsers.KindState,
			Key:   string(s.Key),
			Value: s.Value,
		})
	}

	for i := range records {
		records[i].LineNum = i + 1
	}
	return records
}
