package jsonarchive

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boardio/boardio/pkg/model"
)

// Marshal serializes a board and its descendants into the JSON archive
// envelope, pretty-printed with two-space indentation. Every nested array
// element is a direct field projection of the in-memory record.
func Marshal(board *model.Board, views []*model.View, cards []*model.Card, blocks []*model.Block, exportedAt time.Time) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if views == nil {
		views = []*model.View{}
	}
	if cards == nil {
		cards = []*model.Card{}
	}
	if blocks == nil {
		blocks = []*model.Block{}
	}

	archive := Archive{
		Version:    Version,
		Format:     Format,
		ExportDate: exportedAt.UnixMilli(),
		Board: ArchiveBoard{
			ID:             board.ID,
			Title:          board.Title,
			Description:    board.Description,
			Icon:           board.Icon,
			Type:           board.Type,
			CardProperties: board.CardProperties,
			Properties:     board.Properties,
		},
		Views:  views,
		Cards:  cards,
		Blocks: blocks,
	}
	if archive.Board.CardProperties == nil {
		archive.Board.CardProperties = []model.PropertyTemplate{}
	}
	if archive.Board.Properties == nil {
		archive.Board.Properties = map[string]model.PropertyValue{}
	}

	return json.MarshalIndent(archive, "", "  ")
}
