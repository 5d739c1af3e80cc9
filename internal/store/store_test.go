package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/pkg/model"
)

func newSQLiteTestStore(t *testing.T) Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStoreWithDB(db, db)
	require.NoError(t, err)
	return s
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteTestStore(t),
	}
}

func testBoardsAndBlocks(t *testing.T) *model.BoardsAndBlocks {
	t.Helper()

	board := &model.Board{
		ID:    "board-1",
		Title: "Sprint Planning",
		Type:  model.BoardTypeOpen,
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
			"team": model.NewPropertyValue("platform"),
		},
		CreateAt: 1700000000000,
		UpdateAt: 1700000000000,
	}

	view := &model.View{
		ID:                 "view-1",
		BoardID:            "board-1",
		Title:              "Board View",
		ViewType:           model.ViewTypeBoard,
		GroupByProperty:    "prop-status",
		SortOptions:        []model.SortOption{{PropertyID: "prop-status", Reversed: false}},
		VisiblePropertyIDs: []string{"prop-status"},
		Filter:             model.EmptyFilter(),
	}
	viewBlock, err := view.ToBlock()
	require.NoError(t, err)

	card := &model.Card{
		ID:      "card-1",
		BoardID: "board-1",
		Title:   "Implement login",
		Properties: map[string]model.PropertyValue{
			"prop-status": model.NewPropertyValue("opt-todo"),
		},
		ContentOrder: []model.ContentOrderEntry{model.NewContentEntry("block-1")},
	}
	cardBlock, err := card.ToBlock()
	require.NoError(t, err)

	textBlock := &model.Block{
		ID:       "block-1",
		ParentID: "card-1",
		BoardID:  "board-1",
		Type:     model.BlockTypeText,
		Title:    "Use OAuth if possible",
		Fields:   map[string]model.FieldValue{},
	}

	return &model.BoardsAndBlocks{
		Boards: []*model.Board{board},
		Blocks: []*model.Block{viewBlock, cardBlock, textBlock},
	}
}

func TestCreateAndGetBoard(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := s.CreateBoardAndBlocks(ctx, testBoardsAndBlocks(t))
			require.NoError(t, err)
			require.Len(t, created.Boards, 1)
			require.Len(t, created.Blocks, 3)

			board, err := s.GetBoard(ctx, "board-1")
			require.NoError(t, err)
			assert.Equal(t, "Sprint Planning", board.Title)
			assert.Equal(t, model.BoardTypeOpen, board.Type)
			require.Len(t, board.CardProperties, 1)
			assert.Equal(t, "prop-status", board.CardProperties[0].ID)
			require.Len(t, board.CardProperties[0].Options, 2)

			team, ok := board.Properties["team"]
			require.True(t, ok)
			assert.Equal(t, "platform", team.String())
		})
	}
}

func TestGetBoardNotFound(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.GetBoard(context.Background(), "missing")
			require.Error(t, err)
			assert.True(t, errors.IsAppError(err))
		})
	}
}

func TestListViewsCardsAndBlocks(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.CreateBoardAndBlocks(ctx, testBoardsAndBlocks(t))
			require.NoError(t, err)

			views, err := s.ListViews(ctx, "board-1")
			require.NoError(t, err)
			require.Len(t, views, 1)
			assert.Equal(t, "Board View", views[0].Title)
			assert.Equal(t, model.ViewTypeBoard, views[0].ViewType)
			assert.Equal(t, "prop-status", views[0].GroupByProperty)
			require.Len(t, views[0].SortOptions, 1)

			cards, err := s.ListCards(ctx, "board-1")
			require.NoError(t, err)
			require.Len(t, cards, 1)
			assert.Equal(t, "Implement login", cards[0].Title)
			status, ok := cards[0].PropertyValue("prop-status")
			require.True(t, ok)
			assert.Equal(t, "opt-todo", status.String())
			require.Len(t, cards[0].ContentOrder, 1)
			assert.Equal(t, "block-1", cards[0].ContentOrder[0].BlockID)

			blocks, err := s.ListBlocks(ctx, "board-1")
			require.NoError(t, err)
			require.Len(t, blocks, 1)
			assert.Equal(t, model.BlockTypeText, blocks[0].Type)
			assert.Equal(t, "Use OAuth if possible", blocks[0].Title)
		})
	}
}

func TestListBoardsEmpty(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			boards, err := s.ListBoards(context.Background())
			require.NoError(t, err)
			assert.Empty(t, boards)
		})
	}
}

func TestReimportReplacesExistingEntities(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.CreateBoardAndBlocks(ctx, testBoardsAndBlocks(t))
			require.NoError(t, err)

			updated := testBoardsAndBlocks(t)
			updated.Boards[0].Title = "Sprint Planning v2"
			_, err = s.CreateBoardAndBlocks(ctx, updated)
			require.NoError(t, err)

			boards, err := s.ListBoards(ctx)
			require.NoError(t, err)
			require.Len(t, boards, 1)
			assert.Equal(t, "Sprint Planning v2", boards[0].Title)
		})
	}
}

func TestAssignIDs(t *testing.T) {
	bab := &model.BoardsAndBlocks{
		Boards: []*model.Board{{Title: "No ID"}},
		Blocks: []*model.Block{
			{Type: model.BlockTypeText, Title: "orphan"},
			{ID: "keep-me", BoardID: "other-board", Type: model.BlockTypeText},
		},
	}

	AssignIDs(bab)

	require.NotEmpty(t, bab.Boards[0].ID)
	assert.NotEmpty(t, bab.Blocks[0].ID)
	assert.Equal(t, bab.Boards[0].ID, bab.Blocks[0].BoardID)
	assert.Equal(t, "keep-me", bab.Blocks[1].ID)
	assert.Equal(t, "other-board", bab.Blocks[1].BoardID)
}
