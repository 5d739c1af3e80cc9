package jsonarchive

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
		Title:       "Roadmap",
		Description: "Q3 roadmap",
		Icon:        "🗺",
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
		},
		Properties: map[string]model.PropertyValue{
			"template": model.NewPropertyValue("false"),
		},
	}
}

func TestMarshalEnvelope(t *testing.T) {
	exportedAt := time.UnixMilli(1724800000000)
	data, err := Marshal(testBoard(), nil, nil, nil, exportedAt)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "boardio", doc["format"])
	assert.Equal(t, float64(1724800000000), doc["exportDate"])

	board, ok := doc["board"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "board-1", board["id"])
	assert.Equal(t, "Roadmap", board["title"])
	assert.Equal(t, "Q3 roadmap", board["description"])
	assert.Equal(t, "O", board["type"])

	for _, key := range []string{"views", "cards", "blocks"} {
		section, ok := doc[key].([]any)
		require.True(t, ok, "missing %s array", key)
		assert.Empty(t, section)
	}
}

func TestMarshalPrettyPrintsWithTwoSpaces(t *testing.T) {
	data, err := Marshal(testBoard(), nil, nil, nil, time.UnixMilli(0))
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.Greater(t, len(lines), 2)
	assert.Equal(t, "{", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `  "`), "second line should be indented by exactly two spaces: %q", lines[1])
	// A third-level key confirms the indent step is two spaces, not four.
	assert.Contains(t, string(data), "\n    \"id\"")
}

func TestMarshalRequiresBoard(t *testing.T) {
	_, err := Marshal(nil, nil, nil, nil, time.Now())
	assert.Error(t, err)
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
			SortOptions:        []model.SortOption{{PropertyID: "prop-status", Reversed: false}},
			VisiblePropertyIDs: []string{"prop-status"},
			Filter:             model.EmptyFilter(),
		},
	}
	cards := []*model.Card{
		{
			ID:      "card-1",
			BoardID: "board-1",
			Title:   "Ship exporter",
			Properties: map[string]model.PropertyValue{
				"prop-status": model.NewPropertyValue("opt-done"),
				"prop-tags":   model.NewPropertyListValue("tag1", "tag2"),
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
			Fields:   map[string]model.FieldValue{"value": model.StringField("hello")},
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
	assert.Equal(t, board.Title, got.Title)
	assert.Equal(t, board.CardProperties, got.CardProperties)

	// Flattening order is views, then cards, then generic blocks, each
	// retagged with its structural type.
	assert.Equal(t, model.BlockTypeView, bab.Blocks[0].Type)
	assert.Equal(t, model.BlockTypeCard, bab.Blocks[1].Type)
	assert.Equal(t, model.BlockTypeText, bab.Blocks[2].Type)

	backView, err := model.ViewFromBlock(bab.Blocks[0])
	require.NoError(t, err)
	assert.Equal(t, views[0], backView)

	backCard, err := model.CardFromBlock(bab.Blocks[1])
	require.NoError(t, err)
	assert.Equal(t, cards[0], backCard)

	assert.Equal(t, blocks[0], bab.Blocks[2])
}
