package xmlarchive

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardio/boardio/pkg/model"
)

func testBoard() *model.Board {
	return &model.Board{
		ID:          "board-1",
		Type:        model.BoardTypeOpen,
		Title:       "Roadmap <Q3> & \"beyond\"",
		Description: "it's the plan",
		CardProperties: []model.PropertyTemplate{
			{
				ID:   "prop-status",
				Name: "Status",
				Type: model.PropertyTypeSelect,
				Options: []model.PropertyOption{
					{ID: "opt-todo", Value: "To Do", Color: "propColorGray"},
					{ID: "opt-done", Value: "Done", Color: "propColorGreen"},
				},
			},
			{
				ID:      "prop-tags",
				Name:    "Tags",
				Type:    model.PropertyTypeMultiSelect,
				Options: []model.PropertyOption{},
			},
		},
		Properties: map[string]model.PropertyValue{
			"template": model.NewPropertyValue("false"),
		},
	}
}

func TestMarshalDocumentShape(t *testing.T) {
	data, err := Marshal(testBoard(), nil, nil, nil, time.UnixMilli(1724800000000))
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, text, `<boardio-export version="1.0" format="boardio" exportDate="1724800000000">`)
	for _, section := range []string{"<board ", "<views>", "<cards>", "<blocks>"} {
		assert.Contains(t, text, section)
	}

	// Reserved characters in the title must be escaped in the output.
	assert.Contains(t, text, "Roadmap &lt;Q3&gt; &amp; &quot;beyond&quot;")
	assert.Contains(t, text, "it&apos;s the plan")
	assert.NotContains(t, text, "<Q3>")
}

func TestRoundTrip(t *testing.T) {
	board := testBoard()
	views := []*model.View{
		{
			ID:                 "view-1",
			BoardID:            "board-1",
			Title:              "Kanban",
			ViewType:           model.ViewTypeBoard,
			GroupByProperty:    "prop-status",
			SortOptions:        []model.SortOption{{PropertyID: "prop-status", Reversed: true}},
			VisiblePropertyIDs: []string{"prop-status", "prop-tags"},
			Filter:             model.EmptyFilter(),
		},
	}
	cards := []*model.Card{
		{
			ID:      "card-1",
			BoardID: "board-1",
			Title:   "Ship <it> & celebrate",
			Icon:    "🚀",
			Properties: map[string]model.PropertyValue{
				"prop-status": model.NewPropertyValue("opt-done"),
				"prop-tags":   model.NewPropertyListValue("release"),
			},
			ContentOrder: []model.ContentOrderEntry{
				model.NewContentEntry("block-1"),
				model.NewContentGroup("block-2", "block-3"),
			},
		},
	}
	blocks := []*model.Block{
		{
			ID:       "block-1",
			ParentID: "card-1",
			BoardID:  "board-1",
			Type:     model.BlockTypeText,
			Title:    "Notes",
			Fields: map[string]model.FieldValue{
				"value":    model.StringField("a < b && c > d"),
				"order":    model.NumberField(12),
				"checked":  model.BoolField(true),
				"tags":     model.ArrayField("one"),
				"metadata": model.ObjectField(json.RawMessage(`{"k":1}`)),
			},
		},
	}

	data, err := Marshal(board, views, cards, blocks, time.UnixMilli(1724800000000))
	require.NoError(t, err)

	res := Validate(data)
	require.True(t, res.Valid, res.Error)

	bab, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, bab.Boards, 1)
	require.Len(t, bab.Blocks, 3)

	got := bab.Boards[0]
	assert.Equal(t, board.ID, got.ID)
	assert.Equal(t, board.Type, got.Type)
	assert.Equal(t, board.Title, got.Title)
	assert.Equal(t, board.Description, got.Description)
	assert.Equal(t, board.CardProperties, got.CardProperties)
	assert.Equal(t, board.Properties, got.Properties)

	backView, err := model.ViewFromBlock(bab.Blocks[0])
	require.NoError(t, err)
	assert.Equal(t, views[0], backView)

	backCard, err := model.CardFromBlock(bab.Blocks[1])
	require.NoError(t, err)
	assert.Equal(t, cards[0], backCard)

	assert.Equal(t, blocks[0], bab.Blocks[2])
}

// Multi-value properties are comma-joined into one element. The join is not
// reversible: the whole text reads back as a single-element list.
func TestMultiValueCommaCollapse(t *testing.T) {
	board := testBoard()
	cards := []*model.Card{
		{
			ID:      "card-1",
			BoardID: "board-1",
			Title:   "Tagged",
			Properties: map[string]model.PropertyValue{
				"prop-tags": model.NewPropertyListValue("tag1", "tag2"),
			},
			ContentOrder: []model.ContentOrderEntry{},
		},
	}

	data, err := Marshal(board, nil, cards, nil, time.UnixMilli(0))
	require.NoError(t, err)
	assert.Contains(t, string(data), `<property id="prop-tags">tag1,tag2</property>`)

	bab, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, bab.Blocks, 1)

	card, err := model.CardFromBlock(bab.Blocks[0])
	require.NoError(t, err)
	value := card.Properties["prop-tags"]
	require.True(t, value.IsList())
	assert.Equal(t, []string{"tag1,tag2"}, value.Values())
}

func TestUnmarshalMalformedXML(t *testing.T) {
	_, err := Unmarshal([]byte(`<boardio-export><board>`))
	require.Error(t, err)
	assert.Equal(t, "Invalid XML format", err.Error())
}
