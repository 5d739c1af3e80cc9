package model

// Card is a work-item record with typed property values and an ordered list
// of content-block references.
type Card struct {
	ID           string                   `json:"id"`
	BoardID      string                   `json:"boardId"`
	Title        string                   `json:"title"`
	Icon         string                   `json:"icon,omitempty"`
	Properties   map[string]PropertyValue `json:"properties"`
	ContentOrder []ContentOrderEntry      `json:"contentOrder"`
}

// PropertyValue returns the card's value for a property template id.
func (c *Card) PropertyValue(propertyID string) (PropertyValue, bool) {
	v, ok := c.Properties[propertyID]
	return v, ok
}
