package model

// ViewType discriminates the saved display configurations over a board.
type ViewType string

const (
	ViewTypeBoard    ViewType = "board"
	ViewTypeTable    ViewType = "table"
	ViewTypeGallery  ViewType = "gallery"
	ViewTypeCalendar ViewType = "calendar"
)

// SortOption is one sort directive of a view.
type SortOption struct {
	PropertyID string `json:"propertyId"`
	Reversed   bool   `json:"reversed"`
}

// FilterClause is a single condition inside a filter group.
type FilterClause struct {
	PropertyID string   `json:"propertyId"`
	Condition  string   `json:"condition"`
	Values     []string `json:"values"`
}

// FilterGroup is a view's filter expression tree. Nested groups are not
// reconstructed by the XML importer; it always yields an empty group.
type FilterGroup struct {
	Operation string         `json:"operation"`
	Filters   []FilterClause `json:"filters"`
}

// EmptyFilter returns the canonical empty filter group.
func EmptyFilter() FilterGroup {
	return FilterGroup{Operation: "and", Filters: []FilterClause{}}
}

// View is a saved display configuration over a board's cards.
type View struct {
	ID                 string       `json:"id"`
	BoardID            string       `json:"boardId"`
	Title              string       `json:"title"`
	ViewType           ViewType     `json:"viewType"`
	GroupByProperty    string       `json:"groupById,omitempty"`
	SortOptions        []SortOption `json:"sortOptions"`
	VisiblePropertyIDs []string     `json:"visiblePropertyIds"`
	Filter             FilterGroup  `json:"filter"`
}
