// Package events defines the event types published by the transfer layer.
package events

// Event types for board lifecycle
const (
	BoardCreated  = "board.created"
	BoardImported = "board.imported"
	BoardExported = "board.exported"
)

// BuildBoardSubject creates a subject scoped to a single board.
func BuildBoardSubject(eventType, boardID string) string {
	return eventType + "." + boardID
}

// BuildBoardWildcardSubject creates a wildcard subscription for all boards of
// a given event type.
func BuildBoardWildcardSubject(eventType string) string {
	return eventType + ".*"
}
