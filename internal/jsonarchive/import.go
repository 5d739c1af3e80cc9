package jsonarchive

import (
	"encoding/json"
	"fmt"

	"github.com/boardio/boardio/pkg/model"
)

// Unmarshal reconstructs the in-memory model from a validated JSON archive.
// The returned payload holds one board plus every view, card and generic
// block flattened into the persisted block form, in that order. Identity and
// audit columns the archive does not carry (team, creator) are left empty
// for the persistence layer to fill.
//
// Callers are expected to run Validate first; Unmarshal still fails cleanly
// on malformed input.
func Unmarshal(data []byte) (*model.BoardsAndBlocks, error) {
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}

	board := &model.Board{
		ID:             archive.Board.ID,
		Type:           archive.Board.Type,
		Title:          archive.Board.Title,
		Description:    archive.Board.Description,
		Icon:           archive.Board.Icon,
		CardProperties: archive.Board.CardProperties,
		Properties:     archive.Board.Properties,
	}
	if board.CardProperties == nil {
		board.CardProperties = []model.PropertyTemplate{}
	}
	if board.Properties == nil {
		board.Properties = map[string]model.PropertyValue{}
	}

	blocks := make([]*model.Block, 0, len(archive.Views)+len(archive.Cards)+len(archive.Blocks))
	for _, view := range archive.Views {
		if view.BoardID == "" {
			view.BoardID = board.ID
		}
		block, err := view.ToBlock()
		if err != nil {
			return nil, fmt.Errorf("flatten view %s: %w", view.ID, err)
		}
		blocks = append(blocks, block)
	}
	for _, card := range archive.Cards {
		if card.BoardID == "" {
			card.BoardID = board.ID
		}
		block, err := card.ToBlock()
		if err != nil {
			return nil, fmt.Errorf("flatten card %s: %w", card.ID, err)
		}
		blocks = append(blocks, block)
	}
	for _, block := range archive.Blocks {
		if block.BoardID == "" {
			block.BoardID = board.ID
		}
		if block.Fields == nil {
			block.Fields = map[string]model.FieldValue{}
		}
		blocks = append(blocks, block)
	}

	return &model.BoardsAndBlocks{
		Boards: []*model.Board{board},
		Blocks: blocks,
	}, nil
}
