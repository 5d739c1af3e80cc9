package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldKind tags the native type of a content-block field value. The XML
// codec writes this tag as a `type` attribute; the JSON codec relies on the
// native wire type and re-derives the tag on read.
type FieldKind string

const (
	FieldString FieldKind = "string"
	FieldNumber FieldKind = "number"
	FieldBool   FieldKind = "boolean"
	FieldArray  FieldKind = "array"
	FieldObject FieldKind = "object"
)

// FieldValue is the tagged union carried in a block's open-ended field map.
// Exactly one payload slot is meaningful, selected by Kind.
type FieldValue struct {
	Kind   FieldKind
	Str    string
	Num    float64
	Bool   bool
	List   []string
	Object json.RawMessage
}

// StringField builds a string-typed field value.
func StringField(s string) FieldValue { return FieldValue{Kind: FieldString, Str: s} }

// NumberField builds a number-typed field value.
func NumberField(n float64) FieldValue { return FieldValue{Kind: FieldNumber, Num: n} }

// BoolField builds a boolean-typed field value.
func BoolField(b bool) FieldValue { return FieldValue{Kind: FieldBool, Bool: b} }

// ArrayField builds a string-list field value.
func ArrayField(values ...string) FieldValue { return FieldValue{Kind: FieldArray, List: values} }

// ObjectField builds a nested-document field value from raw JSON.
func ObjectField(raw json.RawMessage) FieldValue { return FieldValue{Kind: FieldObject, Object: raw} }

// MarshalJSON writes the payload in its native JSON type, untagged.
func (f FieldValue) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case FieldString:
		return json.Marshal(f.Str)
	case FieldNumber:
		return json.Marshal(f.Num)
	case FieldBool:
		return json.Marshal(f.Bool)
	case FieldArray:
		if f.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(f.List)
	case FieldObject:
		if len(f.Object) == 0 {
			return []byte("{}"), nil
		}
		return f.Object, nil
	default:
		return nil, fmt.Errorf("unknown field kind %q", f.Kind)
	}
}

// UnmarshalJSON re-derives the kind tag from the native JSON type.
func (f *FieldValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = StringField(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = NumberField(n)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = BoolField(b)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = ArrayField(list...)
		return nil
	}
	// Objects and arrays of non-strings keep their raw document form so
	// embedded structures survive a fields round trip untouched.
	if json.Valid(data) {
		*f = ObjectField(append(json.RawMessage(nil), data...))
		return nil
	}
	return fmt.Errorf("unsupported field value %s", data)
}

// Text renders the payload as the flat string the XML codec writes as
// element text. Object fields are not flattened here; the codec embeds their
// raw JSON instead.
func (f FieldValue) Text() string {
	switch f.Kind {
	case FieldString:
		return f.Str
	case FieldNumber:
		return strconv.FormatFloat(f.Num, 'f', -1, 64)
	case FieldBool:
		return strconv.FormatBool(f.Bool)
	default:
		return ""
	}
}
