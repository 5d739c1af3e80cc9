package model

import (
	"encoding/json"
	"fmt"
)

// BlockType discriminates the persisted block records. Views and cards
// flatten into blocks on import; content blocks keep their rich-content type.
type BlockType string

const (
	BlockTypeBoard    BlockType = "board"
	BlockTypeView     BlockType = "view"
	BlockTypeCard     BlockType = "card"
	BlockTypeText     BlockType = "text"
	BlockTypeImage    BlockType = "image"
	BlockTypeDivider  BlockType = "divider"
	BlockTypeCheckbox BlockType = "checkbox"
	BlockTypeComment  BlockType = "comment"
)

// Block is the generic persisted record. Content blocks use the open-ended
// Fields map directly; views and cards round-trip their structure through it
// (see ViewFromBlock and CardFromBlock).
type Block struct {
	ID       string                `json:"id"`
	ParentID string                `json:"parentId"`
	BoardID  string                `json:"boardId"`
	Type     BlockType             `json:"type"`
	Title    string                `json:"title"`
	Fields   map[string]FieldValue `json:"fields"`
	CreateAt int64                 `json:"createAt,omitempty"`
	UpdateAt int64                 `json:"updateAt,omitempty"`
}

// BoardsAndBlocks is the assembled payload handed to the persistence layer:
// freshly constructed boards plus every flattened block under them.
type BoardsAndBlocks struct {
	Boards []*Board `json:"boards"`
	Blocks []*Block `json:"blocks"`
}

// ToBlock flattens a view into its generic block form.
func (v *View) ToBlock() (*Block, error) {
	fields := map[string]FieldValue{
		"viewType":           StringField(string(v.ViewType)),
		"visiblePropertyIds": ArrayField(v.VisiblePropertyIDs...),
	}
	if v.GroupByProperty != "" {
		fields["groupById"] = StringField(v.GroupByProperty)
	}
	sorts, err := json.Marshal(v.SortOptions)
	if err != nil {
		return nil, fmt.Errorf("marshal sort options: %w", err)
	}
	fields["sortOptions"] = ObjectField(sorts)
	filter, err := json.Marshal(v.Filter)
	if err != nil {
		return nil, fmt.Errorf("marshal filter: %w", err)
	}
	fields["filter"] = ObjectField(filter)

	return &Block{
		ID:       v.ID,
		ParentID: v.BoardID,
		BoardID:  v.BoardID,
		Type:     BlockTypeView,
		Title:    v.Title,
		Fields:   fields,
	}, nil
}

// ViewFromBlock rebuilds a view from its generic block form.
func ViewFromBlock(b *Block) (*View, error) {
	if b.Type != BlockTypeView {
		return nil, fmt.Errorf("block %s is %q, not a view", b.ID, b.Type)
	}
	v := &View{
		ID:                 b.ID,
		BoardID:            b.BoardID,
		Title:              b.Title,
		ViewType:           ViewType(b.Fields["viewType"].Str),
		GroupByProperty:    b.Fields["groupById"].Str,
		SortOptions:        []SortOption{},
		VisiblePropertyIDs: b.Fields["visiblePropertyIds"].List,
		Filter:             EmptyFilter(),
	}
	if v.VisiblePropertyIDs == nil {
		v.VisiblePropertyIDs = []string{}
	}
	if raw := b.Fields["sortOptions"].Object; len(raw) > 0 {
		if err := json.Unmarshal(raw, &v.SortOptions); err != nil {
			return nil, fmt.Errorf("unmarshal sort options for view %s: %w", b.ID, err)
		}
	}
	if raw := b.Fields["filter"].Object; len(raw) > 0 {
		if err := json.Unmarshal(raw, &v.Filter); err != nil {
			return nil, fmt.Errorf("unmarshal filter for view %s: %w", b.ID, err)
		}
	}
	return v, nil
}

// ToBlock flattens a card into its generic block form.
func (c *Card) ToBlock() (*Block, error) {
	fields := map[string]FieldValue{}
	if c.Icon != "" {
		fields["icon"] = StringField(c.Icon)
	}
	props, err := json.Marshal(c.Properties)
	if err != nil {
		return nil, fmt.Errorf("marshal card properties: %w", err)
	}
	fields["properties"] = ObjectField(props)
	order, err := json.Marshal(c.ContentOrder)
	if err != nil {
		return nil, fmt.Errorf("marshal content order: %w", err)
	}
	fields["contentOrder"] = ObjectField(order)

	return &Block{
		ID:       c.ID,
		ParentID: c.BoardID,
		BoardID:  c.BoardID,
		Type:     BlockTypeCard,
		Title:    c.Title,
		Fields:   fields,
	}, nil
}

// CardFromBlock rebuilds a card from its generic block form.
func CardFromBlock(b *Block) (*Card, error) {
	if b.Type != BlockTypeCard {
		return nil, fmt.Errorf("block %s is %q, not a card", b.ID, b.Type)
	}
	c := &Card{
		ID:           b.ID,
		BoardID:      b.BoardID,
		Title:        b.Title,
		Icon:         b.Fields["icon"].Str,
		Properties:   map[string]PropertyValue{},
		ContentOrder: []ContentOrderEntry{},
	}
	if raw := b.Fields["properties"].Object; len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Properties); err != nil {
			return nil, fmt.Errorf("unmarshal properties for card %s: %w", b.ID, err)
		}
	}
	// An order holding only single references serializes as a plain string
	// array and decodes back with the array tag rather than the object one.
	switch order := b.Fields["contentOrder"]; order.Kind {
	case FieldArray:
		for _, id := range order.List {
			c.ContentOrder = append(c.ContentOrder, NewContentEntry(id))
		}
	case FieldObject:
		if len(order.Object) > 0 {
			if err := json.Unmarshal(order.Object, &c.ContentOrder); err != nil {
				return nil, fmt.Errorf("unmarshal content order for card %s: %w", b.ID, err)
			}
		}
	}
	return c, nil
}
