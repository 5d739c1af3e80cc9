package xmlarchive

import (
	"sort"

	"github.com/boardio/boardio/pkg/model"
)

// Map iteration order is randomized in Go; exported documents must be
// byte-stable for diffing, so map-backed sections are written in sorted
// key order.

func sortedPropertyIDs(properties map[string]model.PropertyValue) []string {
	ids := make([]string, 0, len(properties))
	for id := range properties {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedFieldNames(fields map[string]model.FieldValue) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
