package xmlarchive

import (
	"fmt"
	"strings"
	"time"

	"github.com/boardio/boardio/pkg/model"
)

// Marshal serializes a board and its descendants into the XML archive
// document. The tree is built by hand: every attribute value and element
// body passes through Escape, multi-value properties are comma-joined into
// one element (a documented lossy encoding for values containing literal
// commas), and block field values carry an explicit type attribute so the
// importer can reconstruct native types.
func Marshal(board *model.Board, views []*model.View, cards []*model.Card, blocks []*model.Block, exportedAt time.Time) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, "<%s version=%q format=%q exportDate=\"%d\">\n",
		RootElement, Version, Format, exportedAt.UnixMilli())

	writeBoard(&b, board)

	b.WriteString("  <views>\n")
	for _, view := range views {
		writeView(&b, view)
	}
	b.WriteString("  </views>\n")

	b.WriteString("  <cards>\n")
	for _, card := range cards {
		writeCard(&b, card)
	}
	b.WriteString("  </cards>\n")

	b.WriteString("  <blocks>\n")
	for _, block := range blocks {
		if err := writeBlock(&b, block); err != nil {
			return nil, err
		}
	}
	b.WriteString("  </blocks>\n")

	fmt.Fprintf(&b, "</%s>\n", RootElement)
	return []byte(b.String()), nil
}

func writeBoard(b *strings.Builder, board *model.Board) {
	fmt.Fprintf(b, "  <board id=%q type=%q>\n", Escape(board.ID), Escape(string(board.Type)))
	writeTextElement(b, "    ", "title", board.Title)
	writeTextElement(b, "    ", "description", board.Description)
	if board.Icon != "" {
		writeTextElement(b, "    ", "icon", board.Icon)
	}

	b.WriteString("    <cardProperties>\n")
	for _, tpl := range board.CardProperties {
		fmt.Fprintf(b, "      <property id=%q name=%q type=%q>\n",
			Escape(tpl.ID), Escape(tpl.Name), Escape(string(tpl.Type)))
		for _, opt := range tpl.Options {
			fmt.Fprintf(b, "        <option id=%q color=%q>%s</option>\n",
				Escape(opt.ID), Escape(opt.Color), Escape(opt.Value))
		}
		b.WriteString("      </property>\n")
	}
	b.WriteString("    </cardProperties>\n")

	writeProperties(b, "    ", board.Properties)
	b.WriteString("  </board>\n")
}

func writeView(b *strings.Builder, view *model.View) {
	fmt.Fprintf(b, "    <view id=%q>\n", Escape(view.ID))
	writeTextElement(b, "      ", "title", view.Title)
	writeTextElement(b, "      ", "viewType", string(view.ViewType))
	if view.GroupByProperty != "" {
		writeTextElement(b, "      ", "groupById", view.GroupByProperty)
	}
	b.WriteString("      <sortOptions>\n")
	for _, sort := range view.SortOptions {
		fmt.Fprintf(b, "        <sort propertyId=%q reversed=\"%t\"/>\n", Escape(sort.PropertyID), sort.Reversed)
	}
	b.WriteString("      </sortOptions>\n")
	b.WriteString("      <visibleProperties>\n")
	for _, id := range view.VisiblePropertyIDs {
		writeTextElement(b, "        ", "propertyId", id)
	}
	b.WriteString("      </visibleProperties>\n")
	// Nested filter conditions do not round-trip; only the group operation
	// is written and the importer always rebuilds an empty group.
	fmt.Fprintf(b, "      <filter operation=%q/>\n", Escape(filterOperation(view.Filter)))
	b.WriteString("    </view>\n")
}

func filterOperation(filter model.FilterGroup) string {
	if filter.Operation == "" {
		return "and"
	}
	return filter.Operation
}

func writeCard(b *strings.Builder, card *model.Card) {
	fmt.Fprintf(b, "    <card id=%q>\n", Escape(card.ID))
	writeTextElement(b, "      ", "title", card.Title)
	if card.Icon != "" {
		writeTextElement(b, "      ", "icon", card.Icon)
	}
	writeProperties(b, "      ", card.Properties)
	b.WriteString("      <contentOrder>\n")
	for _, entry := range card.ContentOrder {
		if entry.IsGroup() {
			b.WriteString("        <item type=\"group\">\n")
			for _, id := range entry.Group {
				writeTextElement(b, "          ", "id", id)
			}
			b.WriteString("        </item>\n")
		} else {
			writeTextElement(b, "        ", "item", entry.BlockID)
		}
	}
	b.WriteString("      </contentOrder>\n")
	b.WriteString("    </card>\n")
}

func writeBlock(b *strings.Builder, block *model.Block) error {
	fmt.Fprintf(b, "    <block id=%q parentId=%q type=%q>\n",
		Escape(block.ID), Escape(block.ParentID), Escape(string(block.Type)))
	writeTextElement(b, "      ", "title", block.Title)
	b.WriteString("      <fields>\n")
	for _, name := range sortedFieldNames(block.Fields) {
		field := block.Fields[name]
		text, err := fieldText(field)
		if err != nil {
			return fmt.Errorf("block %s field %q: %w", block.ID, name, err)
		}
		fmt.Fprintf(b, "        <field name=%q type=%q>%s</field>\n",
			Escape(name), Escape(string(field.Kind)), Escape(text))
	}
	b.WriteString("      </fields>\n")
	b.WriteString("    </block>\n")
	return nil
}

// fieldText flattens a tagged field value to element text. Object fields
// embed their document as a JSON string.
func fieldText(field model.FieldValue) (string, error) {
	switch field.Kind {
	case model.FieldString, model.FieldNumber, model.FieldBool:
		return field.Text(), nil
	case model.FieldArray:
		return strings.Join(field.List, ","), nil
	case model.FieldObject:
		if len(field.Object) == 0 {
			return "{}", nil
		}
		return string(field.Object), nil
	default:
		return "", fmt.Errorf("unknown field kind %q", field.Kind)
	}
}

// writeProperties serializes a property map. Multi-value entries are
// comma-joined into the element body.
func writeProperties(b *strings.Builder, indent string, properties map[string]model.PropertyValue) {
	b.WriteString(indent + "<properties>\n")
	for _, id := range sortedPropertyIDs(properties) {
		value := properties[id]
		text := value.String()
		if value.IsList() {
			text = strings.Join(value.Values(), ",")
		}
		fmt.Fprintf(b, indent+"  <property id=%q>%s</property>\n", Escape(id), Escape(text))
	}
	b.WriteString(indent + "</properties>\n")
}

func writeTextElement(b *strings.Builder, indent, name, text string) {
	fmt.Fprintf(b, "%s<%s>%s</%s>\n", indent, name, Escape(text), name)
}
