package xmlarchive

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/boardio/boardio/pkg/model"
)

// Unmarshal reconstructs the in-memory model from a validated XML archive.
// The returned payload holds one board plus every view, card and generic
// block flattened into the persisted block form, in document order. Every
// escape and type-tag decision made at export time is reversed here; the
// comma-join collapse for multi-value properties is not reversible and the
// whole joined text comes back as a single-element list.
func Unmarshal(data []byte) (*model.BoardsAndBlocks, error) {
	root, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("Invalid XML format")
	}

	boardEl := root.child("board")
	if boardEl == nil {
		return nil, fmt.Errorf("missing board section")
	}
	board := readBoard(boardEl)

	blocks := []*model.Block{}
	if viewsEl := root.child("views"); viewsEl != nil {
		for _, el := range viewsEl.children {
			if el.name != "view" {
				continue
			}
			view := readView(el, board.ID)
			block, err := view.ToBlock()
			if err != nil {
				return nil, fmt.Errorf("flatten view %s: %w", view.ID, err)
			}
			blocks = append(blocks, block)
		}
	}
	if cardsEl := root.child("cards"); cardsEl != nil {
		for _, el := range cardsEl.children {
			if el.name != "card" {
				continue
			}
			card := readCard(el, board)
			block, err := card.ToBlock()
			if err != nil {
				return nil, fmt.Errorf("flatten card %s: %w", card.ID, err)
			}
			blocks = append(blocks, block)
		}
	}
	if blocksEl := root.child("blocks"); blocksEl != nil {
		for _, el := range blocksEl.children {
			if el.name != "block" {
				continue
			}
			block, err := readBlock(el, board.ID)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
		}
	}

	return &model.BoardsAndBlocks{
		Boards: []*model.Board{board},
		Blocks: blocks,
	}, nil
}

func readBoard(el *element) *model.Board {
	id, _ := el.attr("id")
	boardType, _ := el.attr("type")

	board := &model.Board{
		ID:             id,
		Type:           model.BoardType(boardType),
		Title:          el.childText("title"),
		Description:    el.childText("description"),
		Icon:           el.childText("icon"),
		CardProperties: []model.PropertyTemplate{},
		Properties:     map[string]model.PropertyValue{},
	}

	if propsEl := el.child("cardProperties"); propsEl != nil {
		for _, propEl := range propsEl.children {
			if propEl.name != "property" {
				continue
			}
			propID, _ := propEl.attr("id")
			name, _ := propEl.attr("name")
			propType, _ := propEl.attr("type")
			tpl := model.PropertyTemplate{
				ID:      propID,
				Name:    name,
				Type:    model.PropertyType(propType),
				Options: []model.PropertyOption{},
			}
			for _, optEl := range propEl.children {
				if optEl.name != "option" {
					continue
				}
				optID, _ := optEl.attr("id")
				color, _ := optEl.attr("color")
				tpl.Options = append(tpl.Options, model.PropertyOption{
					ID:    optID,
					Value: optEl.text,
					Color: color,
				})
			}
			board.CardProperties = append(board.CardProperties, tpl)
		}
	}

	// Board-level properties carry no template, so every value reads back
	// as a scalar.
	for id, text := range readPropertyTexts(el.child("properties")) {
		board.Properties[id] = model.NewPropertyValue(text)
	}

	return board
}

func readView(el *element, boardID string) *model.View {
	id, _ := el.attr("id")
	view := &model.View{
		ID:                 id,
		BoardID:            boardID,
		Title:              el.childText("title"),
		ViewType:           model.ViewType(el.childText("viewType")),
		GroupByProperty:    el.childText("groupById"),
		SortOptions:        []model.SortOption{},
		VisiblePropertyIDs: []string{},
		// Nested filter conditions are not reconstructed; the filter always
		// reads back as an empty group.
		Filter: model.EmptyFilter(),
	}

	if sortsEl := el.child("sortOptions"); sortsEl != nil {
		for _, sortEl := range sortsEl.children {
			if sortEl.name != "sort" {
				continue
			}
			propertyID, _ := sortEl.attr("propertyId")
			reversed, _ := sortEl.attr("reversed")
			view.SortOptions = append(view.SortOptions, model.SortOption{
				PropertyID: propertyID,
				Reversed:   reversed == "true",
			})
		}
	}
	if visibleEl := el.child("visibleProperties"); visibleEl != nil {
		for _, idEl := range visibleEl.children {
			if idEl.name == "propertyId" {
				view.VisiblePropertyIDs = append(view.VisiblePropertyIDs, idEl.text)
			}
		}
	}

	return view
}

func readCard(el *element, board *model.Board) *model.Card {
	id, _ := el.attr("id")
	card := &model.Card{
		ID:           id,
		BoardID:      board.ID,
		Title:        el.childText("title"),
		Icon:         el.childText("icon"),
		Properties:   map[string]model.PropertyValue{},
		ContentOrder: []model.ContentOrderEntry{},
	}

	for propID, text := range readPropertyTexts(el.child("properties")) {
		card.Properties[propID] = readCardPropertyValue(board, propID, text)
	}

	if orderEl := el.child("contentOrder"); orderEl != nil {
		for _, itemEl := range orderEl.children {
			if itemEl.name != "item" {
				continue
			}
			if kind, _ := itemEl.attr("type"); kind == "group" {
				group := []string{}
				for _, idEl := range itemEl.children {
					if idEl.name == "id" {
						group = append(group, idEl.text)
					}
				}
				card.ContentOrder = append(card.ContentOrder, model.NewContentGroup(group...))
			} else {
				card.ContentOrder = append(card.ContentOrder, model.NewContentEntry(itemEl.text))
			}
		}
	}

	return card
}

// readCardPropertyValue retags a card property from the board's template.
// Multi-select values come back as a single-element list holding the whole
// comma-joined text; unknown property ids stay permissive scalars.
func readCardPropertyValue(board *model.Board, propID, text string) model.PropertyValue {
	if tpl, ok := board.PropertyTemplateByID(propID); ok && tpl.Type == model.PropertyTypeMultiSelect {
		if text == "" {
			return model.NewPropertyListValue()
		}
		return model.NewPropertyListValue(text)
	}
	return model.NewPropertyValue(text)
}

func readBlock(el *element, boardID string) (*model.Block, error) {
	id, _ := el.attr("id")
	parentID, _ := el.attr("parentId")
	blockType, _ := el.attr("type")
	block := &model.Block{
		ID:       id,
		ParentID: parentID,
		BoardID:  boardID,
		Type:     model.BlockType(blockType),
		Title:    el.childText("title"),
		Fields:   map[string]model.FieldValue{},
	}

	fieldsEl := el.child("fields")
	if fieldsEl == nil {
		return block, nil
	}
	for _, fieldEl := range fieldsEl.children {
		if fieldEl.name != "field" {
			continue
		}
		name, _ := fieldEl.attr("name")
		kind, _ := fieldEl.attr("type")
		value, err := readFieldValue(model.FieldKind(kind), fieldEl.text)
		if err != nil {
			return nil, fmt.Errorf("block %s field %q: %w", id, name, err)
		}
		block.Fields[name] = value
	}
	return block, nil
}

// readFieldValue reverses the type-tag encoding of one block field.
func readFieldValue(kind model.FieldKind, text string) (model.FieldValue, error) {
	switch kind {
	case model.FieldString:
		return model.StringField(text), nil
	case model.FieldNumber:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return model.FieldValue{}, fmt.Errorf("invalid number %q", text)
		}
		return model.NumberField(n), nil
	case model.FieldBool:
		return model.BoolField(text == "true"), nil
	case model.FieldArray:
		if text == "" {
			return model.ArrayField(), nil
		}
		return model.ArrayField(text), nil
	case model.FieldObject:
		if !json.Valid([]byte(text)) {
			return model.FieldValue{}, fmt.Errorf("invalid embedded JSON %q", text)
		}
		return model.ObjectField(json.RawMessage(text)), nil
	default:
		return model.FieldValue{}, fmt.Errorf("unknown field type %q", kind)
	}
}

// readPropertyTexts collects <property id="..">text</property> children.
func readPropertyTexts(propsEl *element) map[string]string {
	texts := map[string]string{}
	if propsEl == nil {
		return texts
	}
	for _, propEl := range propsEl.children {
		if propEl.name != "property" {
			continue
		}
		if id, ok := propEl.attr("id"); ok {
			texts[id] = propEl.text
		}
	}
	return texts
}
