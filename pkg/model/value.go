package model

import (
	"encoding/json"
	"fmt"
)

// PropertyValue holds one board or card property value: either a single
// string or an ordered list of strings. The zero value is an empty scalar.
type PropertyValue struct {
	value  string
	values []string
	isList bool
}

// NewPropertyValue builds a scalar property value.
func NewPropertyValue(s string) PropertyValue {
	return PropertyValue{value: s}
}

// NewPropertyListValue builds a multi-value property value.
func NewPropertyListValue(values ...string) PropertyValue {
	return PropertyValue{values: values, isList: true}
}

// IsList reports whether the value is an ordered list rather than a scalar.
func (v PropertyValue) IsList() bool { return v.isList }

// String returns the scalar value, or the first list element for lists.
func (v PropertyValue) String() string {
	if v.isList {
		if len(v.values) == 0 {
			return ""
		}
		return v.values[0]
	}
	return v.value
}

// Values returns the value as an ordered list. Scalars yield a one-element
// list; empty scalars yield nil.
func (v PropertyValue) Values() []string {
	if v.isList {
		return v.values
	}
	if v.value == "" {
		return nil
	}
	return []string{v.value}
}

// MarshalJSON writes the native wire form: a JSON string for scalars, a JSON
// array of strings for lists.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.values == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.values)
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON accepts a string or an array of strings.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = PropertyValue{value: s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			list = nil
		}
		*v = PropertyValue{values: list, isList: true}
		return nil
	}
	return fmt.Errorf("property value must be a string or an array of strings")
}

// ContentOrderEntry is one entry in a card's content order: either a single
// block reference or a grouped cluster of references rendered together.
type ContentOrderEntry struct {
	BlockID string
	Group   []string
}

// NewContentEntry builds a single-block entry.
func NewContentEntry(blockID string) ContentOrderEntry {
	return ContentOrderEntry{BlockID: blockID}
}

// NewContentGroup builds a grouped entry.
func NewContentGroup(blockIDs ...string) ContentOrderEntry {
	return ContentOrderEntry{Group: blockIDs}
}

// IsGroup reports whether the entry is a grouped cluster.
func (e ContentOrderEntry) IsGroup() bool { return e.Group != nil }

// MarshalJSON writes a bare string for single references and an array of
// strings for groups.
func (e ContentOrderEntry) MarshalJSON() ([]byte, error) {
	if e.IsGroup() {
		return json.Marshal(e.Group)
	}
	return json.Marshal(e.BlockID)
}

// UnmarshalJSON accepts a string or an array of strings.
func (e *ContentOrderEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = ContentOrderEntry{BlockID: s}
		return nil
	}
	var group []string
	if err := json.Unmarshal(data, &group); err == nil {
		*e = ContentOrderEntry{Group: group}
		return nil
	}
	return fmt.Errorf("content order entry must be a string or an array of strings")
}
