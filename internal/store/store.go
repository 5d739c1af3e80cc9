// Package store defines the persistence interface backing the transfer
// service, with in-memory, SQLite and PostgreSQL implementations selected
// through the provider.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/boardio/boardio/pkg/model"
)

// CreatedEntities reports what a CreateBoardAndBlocks call persisted,
// including any server-assigned identifiers.
type CreatedEntities struct {
	Boards []*model.Board
	Blocks []*model.Block
}

// Store persists boards and their flattened blocks.
type Store interface {
	// CreateBoardAndBlocks persists the boards and blocks in a single
	// logical operation. Empty ids are assigned by the store and block
	// references are remapped accordingly.
	CreateBoardAndBlocks(ctx context.Context, bab *model.BoardsAndBlocks) (*CreatedEntities, error)

	// GetBoard retrieves a board by id.
	GetBoard(ctx context.Context, boardID string) (*model.Board, error)

	// ListBoards returns all boards.
	ListBoards(ctx context.Context) ([]*model.Board, error)

	// ListViews returns the views of a board, reconstructed from their
	// block form.
	ListViews(ctx context.Context, boardID string) ([]*model.View, error)

	// ListCards returns the cards of a board, reconstructed from their
	// block form.
	ListCards(ctx context.Context, boardID string) ([]*model.Card, error)

	// ListBlocks returns the content blocks of a board. Views and cards
	// are excluded; they are exposed through ListViews and ListCards.
	ListBlocks(ctx context.Context, boardID string) ([]*model.Block, error)

	Close() error
}

// AssignIDs gives boards and blocks an id when they arrive without one.
// Existing ids are kept so that references between blocks, including ids
// embedded in card content order, stay intact. Blocks without a boardId are
// attached to the first board. The input is mutated in place.
func AssignIDs(bab *model.BoardsAndBlocks) {
	for _, board := range bab.Boards {
		if board.ID == "" {
			board.ID = uuid.New().String()
		}
	}

	for _, block := range bab.Blocks {
		if block.ID == "" {
			block.ID = uuid.New().String()
		}
		if block.BoardID == "" && len(bab.Boards) > 0 {
			block.BoardID = bab.Boards[0].ID
		}
	}
}
