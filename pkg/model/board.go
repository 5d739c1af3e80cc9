// Package model defines the in-memory project-board domain: boards, views,
// cards and content blocks, plus the tagged value types carried through the
// interchange codecs.
package model

// BoardType discriminates organization-wide boards from private ones.
type BoardType string

const (
	// BoardTypeOpen is visible to the whole organization
	BoardTypeOpen BoardType = "O"
	// BoardTypePrivate is visible to its members only
	BoardTypePrivate BoardType = "P"
)

// PropertyType identifies the kind of value a property template accepts.
type PropertyType string

const (
	PropertyTypeText        PropertyType = "text"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeSelect      PropertyType = "select"
	PropertyTypeMultiSelect PropertyType = "multiSelect"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeCheckbox    PropertyType = "checkbox"
	PropertyTypePerson      PropertyType = "person"
	PropertyTypeURL         PropertyType = "url"
)

// PropertyOption is one selectable value of a select-like property template.
type PropertyOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// PropertyTemplate is a board-level schema entry defining one configurable
// card/view field. Options is populated for select-like types only.
type PropertyTemplate struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Type    PropertyType     `json:"type"`
	Options []PropertyOption `json:"options"`
}

// Board is the top-level container for views, cards and content blocks.
type Board struct {
	ID             string                   `json:"id"`
	TeamID         string                   `json:"teamId"`
	CreatedBy      string                   `json:"createdBy"`
	ModifiedBy     string                   `json:"modifiedBy"`
	Type           BoardType                `json:"type"`
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Icon           string                   `json:"icon,omitempty"`
	CardProperties []PropertyTemplate       `json:"cardProperties"`
	Properties     map[string]PropertyValue `json:"properties"`
	CreateAt       int64                    `json:"createAt"`
	UpdateAt       int64                    `json:"updateAt"`
}

// PropertyTemplateByID resolves a property template on the board.
func (b *Board) PropertyTemplateByID(id string) (*PropertyTemplate, bool) {
	for i := range b.CardProperties {
		if b.CardProperties[i].ID == id {
			return &b.CardProperties[i], true
		}
	}
	return nil, false
}
