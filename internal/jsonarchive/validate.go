package jsonarchive

import (
	"encoding/json"
	"fmt"
)

// Result is the outcome of a validation pass. Validators are total: every
// malformed shape yields a Result, never a panic or an error return.
type Result struct {
	Valid bool
	Error string
}

func invalid(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Validate checks a raw JSON archive against the schema contract before any
// model reconstruction is attempted. Each failure shape has its own message
// naming the offending field, index or value.
func Validate(data []byte) Result {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return invalid("Invalid JSON format")
	}

	version, ok := doc["version"].(string)
	if !ok {
		return invalid("Missing or invalid version: expected %q", Version)
	}
	if version != Version {
		return invalid("Invalid version %q: expected %q", version, Version)
	}

	format, ok := doc["format"].(string)
	if !ok {
		return invalid("Missing or invalid format: expected %q", Format)
	}
	if format != Format {
		return invalid("Invalid format %q: expected %q", format, Format)
	}

	if _, ok := doc["exportDate"].(float64); !ok {
		return invalid("Missing or invalid exportDate")
	}

	board, ok := doc["board"].(map[string]any)
	if !ok {
		return invalid("Missing or invalid board object")
	}
	for _, field := range []string{"id", "title", "description", "type"} {
		if _, ok := board[field].(string); !ok {
			return invalid("Board is missing required field '%s'", field)
		}
	}
	if _, ok := board["cardProperties"].([]any); !ok {
		return invalid("Board field 'cardProperties' must be an array")
	}
	if _, ok := board["properties"].(map[string]any); !ok {
		return invalid("Board field 'properties' must be an object")
	}

	if res := validateSection(doc, "views", "View"); !res.Valid {
		return res
	}
	if res := validateSection(doc, "cards", "Card"); !res.Valid {
		return res
	}
	if res := validateSection(doc, "blocks", "Block"); !res.Valid {
		return res
	}

	return Result{Valid: true}
}

// validateSection checks that a top-level key holds an array whose every
// element carries at minimum an id and its parent board reference.
func validateSection(doc map[string]any, key, label string) Result {
	section, ok := doc[key].([]any)
	if !ok {
		return invalid("Missing or invalid %s array", key)
	}
	for i, raw := range section {
		element, ok := raw.(map[string]any)
		if !ok {
			return invalid("%s at index %d is missing required fields (id, boardId)", label, i)
		}
		id, _ := element["id"].(string)
		boardID, _ := element["boardId"].(string)
		if id == "" || boardID == "" {
			return invalid("%s at index %d is missing required fields (id, boardId)", label, i)
		}
	}
	return Result{Valid: true}
}
