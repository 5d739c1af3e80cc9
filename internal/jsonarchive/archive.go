// Package jsonarchive implements the bidirectional board <-> JSON archive
// mapping: the versioned export envelope, the schema validator run in front
// of every import, and the model reconstruction on import.
package jsonarchive

import (
	"github.com/boardio/boardio/pkg/model"
)

// Envelope literals. Both are exact-match contracts checked by the validator.
const (
	Version = "1.0"
	Format  = "boardio"
)

// Archive is the JSON export envelope.
type Archive struct {
	Version    string         `json:"version"`
	Format     string         `json:"format"`
	ExportDate int64          `json:"exportDate"`
	Board      ArchiveBoard   `json:"board"`
	Views      []*model.View  `json:"views"`
	Cards      []*model.Card  `json:"cards"`
	Blocks     []*model.Block `json:"blocks"`
}

// ArchiveBoard is the exported projection of a board. Identity and audit
// columns that only the persistence layer knows (team, owner, timestamps)
// are deliberately absent.
type ArchiveBoard struct {
	ID             string                         `json:"id"`
	Title          string                         `json:"title"`
	Description    string                         `json:"description"`
	Icon           string                         `json:"icon,omitempty"`
	Type           model.BoardType                `json:"type"`
	CardProperties []model.PropertyTemplate       `json:"cardProperties"`
	Properties     map[string]model.PropertyValue `json:"properties"`
}
