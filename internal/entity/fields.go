package entity

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/narrata/internal/calendar"
	"github.com/mesh-intelligence/narrata/internal/catalog"
	"github.com/mesh-intelligence/narrata/internal/dsl"
	"github.com/mesh-intelligence/narrata/pkg/types"
)

const (
	fieldStatus  = "status"
	fieldDate    = "date"
	fieldSortKey = "sort_key"
)

// applyFields routes regular set arguments onto e. Status goes through the
// kind's status set, declared fields are parsed to their type and anything
// else lands in metadata. An empty metadata value removes the entry.
func applyFields(def *types.EntityDef, e *types.Entity, args []dsl.SetArg, cal calendar.Parser) error {
	var dateSet, sortKeySet bool
	for _, a := range args {
		switch {
		case a.Key == fieldStatus:
			st, err := def.Statuses.Parse(a.Value)
			if err != nil {
				return err
			}
			e.Status = st
		case def.IsKey(a.Key):
			return fmt.Errorf("%w: %s", types.ErrKeyImmutable, a.Key)
		case def.IsReserved(a.Key):
			return fmt.Errorf("%w: %s is reserved", types.ErrInvalidSetArg, a.Key)
		default:
			if f, ok := def.Value(a.Key); ok {
				v, err := f.Parse(a.Value)
				if err != nil {
					return err
				}
				e.Fields[f.Name] = v
				dateSet = dateSet || f.Name == fieldDate
				sortKeySet = sortKeySet || f.Name == fieldSortKey
				continue
			}
			if a.Value == "" {
				delete(e.Metadata, a.Key)
				continue
			}
			e.Metadata[a.Key] = metadataValue(a.Value)
		}
	}

	if def.Kind == catalog.KindEvent && dateSet && !sortKeySet {
		date, _ := e.Fields[fieldDate].(string)
		key, err := cal.SortKey(date)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrInvalidValue, err)
		}
		e.Fields[fieldSortKey] = key
	}
	return nil
}

// metadataValue keeps JSON literals typed ("87", "true", "[1,2]") and stores
// everything else as a string.
func metadataValue(raw string) any {
	var v any
	if json.Valid([]byte(raw)) && json.Unmarshal([]byte(raw), &v) == nil {
		return v
	}
	return raw
}
