package store

import (
	"context"
	"sync"

	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/pkg/model"
)

// MemoryStore keeps boards and blocks in process memory. It is the default
// store for tests and for running without a database.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]*model.Board
	blocks map[string]*model.Block

	// insertion order per board, so listings are stable
	boardOrder []string
	blockOrder map[string][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		boards:     make(map[string]*model.Board),
		blocks:     make(map[string]*model.Block),
		blockOrder: make(map[string][]string),
	}
}

// CreateBoardAndBlocks persists the boards and blocks. Entities with an
// existing id are replaced.
func (s *MemoryStore) CreateBoardAndBlocks(ctx context.Context, bab *model.BoardsAndBlocks) (*CreatedEntities, error) {
	AssignIDs(bab)

	s.mu.Lock()
	defer s.mu.Unlock()

	created := &CreatedEntities{}

	for _, board := range bab.Boards {
		copied := *board
		if _, exists := s.boards[board.ID]; !exists {
			s.boardOrder = append(s.boardOrder, board.ID)
		}
		s.boards[board.ID] = &copied
		created.Boards = append(created.Boards, board)
	}

	for _, block := range bab.Blocks {
		copied := *block
		if _, exists := s.blocks[block.ID]; !exists {
			s.blockOrder[block.BoardID] = append(s.blockOrder[block.BoardID], block.ID)
		}
		s.blocks[block.ID] = &copied
		created.Blocks = append(created.Blocks, block)
	}

	return created, nil
}

// GetBoard retrieves a board by id.
func (s *MemoryStore) GetBoard(ctx context.Context, boardID string) (*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, ok := s.boards[boardID]
	if !ok {
		return nil, errors.NotFound("board", boardID)
	}
	copied := *board
	return &copied, nil
}

// ListBoards returns all boards in insertion order.
func (s *MemoryStore) ListBoards(ctx context.Context) ([]*model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	boards := make([]*model.Board, 0, len(s.boardOrder))
	for _, id := range s.boardOrder {
		if board, ok := s.boards[id]; ok {
			copied := *board
			boards = append(boards, &copied)
		}
	}
	return boards, nil
}

// ListViews returns the views of a board.
func (s *MemoryStore) ListViews(ctx context.Context, boardID string) ([]*model.View, error) {
	blocks, err := s.listByType(boardID, model.BlockTypeView)
	if err != nil {
		return nil, err
	}

	views := make([]*model.View, 0, len(blocks))
	for _, block := range blocks {
		view, err := model.ViewFromBlock(block)
		if err != nil {
			return nil, errors.PersistenceError("failed to decode view block", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// ListCards returns the cards of a board.
func (s *MemoryStore) ListCards(ctx context.Context, boardID string) ([]*model.Card, error) {
	blocks, err := s.listByType(boardID, model.BlockTypeCard)
	if err != nil {
		return nil, err
	}

	cards := make([]*model.Card, 0, len(blocks))
	for _, block := range blocks {
		card, err := model.CardFromBlock(block)
		if err != nil {
			return nil, errors.PersistenceError("failed to decode card block", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// ListBlocks returns the content blocks of a board, excluding views and cards.
func (s *MemoryStore) ListBlocks(ctx context.Context, boardID string) ([]*model.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blocks []*model.Block
	for _, id := range s.blockOrder[boardID] {
		block, ok := s.blocks[id]
		if !ok || block.Type == model.BlockTypeView || block.Type == model.BlockTypeCard {
			continue
		}
		copied := *block
		blocks = append(blocks, &copied)
	}
	return blocks, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) listByType(boardID string, blockType model.BlockType) ([]*model.Block, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blocks []*model.Block
	for _, id := range s.blockOrder[boardID] {
		block, ok := s.blocks[id]
		if !ok || block.Type != blockType {
			continue
		}
		copied := *block
		blocks = append(blocks, &copied)
	}
	return blocks, nil
}
