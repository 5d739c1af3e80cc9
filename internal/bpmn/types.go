// Package bpmn converts a board and its cards into a BPMN 2.0 process
// diagram: one lane per status option, one user task per card, sequence
// flows inferred from dependency properties with a sequential fallback, and
// a deterministic fixed-pixel visual layout. All artifacts are transient;
// they exist only for the duration of one export call.
package bpmn

import "github.com/boardio/boardio/pkg/model"

// MappingConfig selects how board columns and cards map onto the process.
type MappingConfig struct {
	// StatusPropertyID names the select property whose options become
	// lanes. Resolution failure is the single fatal export condition.
	StatusPropertyID string
	// StartStates lists option ids whose first card connects to the
	// synthetic start event.
	StartStates []string
	// EndStates lists option ids whose last card connects to the synthetic
	// end event.
	EndStates []string
	// DependencyPropertyID optionally names the property holding card ids
	// the card depends on; each reference becomes a sequence flow.
	DependencyPropertyID string
}

// Process is the executable half of the definitions document.
type Process struct {
	ID          string
	Name        string
	Lanes       []*Lane
	StartEvents []*Event
	EndEvents   []*Event
	Tasks       []*Task
	Flows       []*SequenceFlow
}

// Lane groups the tasks of one status option.
type Lane struct {
	ID      string
	Name    string
	TaskIDs []string
	// Option back-references the originating status option.
	Option *model.PropertyOption
}

// Task is the process node for one card. Kind is always the BPMN user task.
type Task struct {
	ID       string
	Name     string
	Kind     string
	LaneID   string
	Incoming []string
	Outgoing []string
	// Card back-references the originating card.
	Card *model.Card
}

// Event is a synthetic start or end event.
type Event struct {
	ID       string
	Name     string
	Incoming []string
	Outgoing []string
}

// SequenceFlow is a directed edge between two flow nodes.
type SequenceFlow struct {
	ID        string
	SourceRef string
	TargetRef string
}

// Bounds is a shape's pixel rectangle.
type Bounds struct {
	X float64
	Y float64
	W float64
	H float64
}

// Center returns the geometric center of the bounds.
func (b Bounds) Center() Waypoint {
	return Waypoint{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Waypoint is one point of an edge.
type Waypoint struct {
	X float64
	Y float64
}

// Shape places one process element on the diagram plane.
type Shape struct {
	ID        string
	ElementID string
	Bounds    Bounds
}

// Edge draws one sequence flow as a straight line between shape centers.
type Edge struct {
	ID        string
	ElementID string
	Waypoints []Waypoint
}

// Diagram is the visual half of the definitions document.
type Diagram struct {
	Shapes []Shape
	Edges  []Edge
}

// Definitions is a complete BPMN 2.0 document: process plus diagram.
type Definitions struct {
	Process *Process
	Diagram *Diagram
}

// TaskKindUser is the fixed task kind for mapped cards.
const TaskKindUser = "userTask"
