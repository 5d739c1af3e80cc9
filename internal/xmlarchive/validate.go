package xmlarchive

import "fmt"

// Result is the outcome of a validation pass. The validator is total: any
// malformed document yields a Result with a specific message, never a panic.
type Result struct {
	Valid bool
	Error string
}

func invalid(format string, args ...any) Result {
	return Result{Error: fmt.Sprintf(format, args...)}
}

// Validate parses and checks a raw XML archive before any model
// reconstruction. Parse faults are reported as "Invalid XML format"; every
// schema violation has a distinct message naming the offending element,
// attribute or value.
func Validate(data []byte) Result {
	root, err := parse(data)
	if err != nil {
		return invalid("Invalid XML format")
	}
	return validateTree(root)
}

func validateTree(root *element) Result {
	if root.name != RootElement {
		return invalid("Invalid root element '%s': expected '%s'", root.name, RootElement)
	}

	version, ok := root.attr("version")
	if !ok {
		return invalid("Missing version attribute: expected '%s'", Version)
	}
	if version != Version {
		return invalid("Invalid version '%s': expected '%s'", version, Version)
	}

	format, ok := root.attr("format")
	if !ok {
		return invalid("Missing format attribute: expected '%s'", Format)
	}
	if format != Format {
		return invalid("Invalid format '%s': expected '%s'", format, Format)
	}

	for _, section := range []string{"board", "views", "cards", "blocks"} {
		switch n := root.childCount(section); {
		case n == 0:
			return invalid("Missing required section '%s'", section)
		case n > 1:
			return invalid("Duplicate section '%s'", section)
		}
	}

	board := root.child("board")
	if id, ok := board.attr("id"); !ok || id == "" {
		return invalid("Board element is missing 'id' attribute")
	}
	if title := board.child("title"); title == nil || title.text == "" {
		return invalid("Board is missing a non-empty 'title' element")
	}

	return Result{Valid: true}
}
