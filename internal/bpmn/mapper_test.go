package bpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardio/boardio/pkg/model"
)

const (
	statusPropID = "prop-status"
	depsPropID   = "prop-deps"
)

func testBoard() *model.Board {
	return &model.Board{
		ID:    "board-1",
		Title: "Release plan",
		CardProperties: []model.PropertyTemplate{
			{
				ID:   statusPropID,
				Name: "Status",
				Type: model.PropertyTypeSelect,
				Options: []model.PropertyOption{
					{ID: "opt-todo", Value: "To Do", Color: "propColorGray"},
					{ID: "opt-doing", Value: "Doing", Color: "propColorYellow"},
					{ID: "opt-done", Value: "Done", Color: "propColorGreen"},
				},
			},
			{ID: depsPropID, Name: "Depends on", Type: model.PropertyTypeMultiSelect},
		},
	}
}

func card(id, title, status string, deps ...string) *model.Card {
	c := &model.Card{
		ID:         id,
		BoardID:    "board-1",
		Title:      title,
		Properties: map[string]model.PropertyValue{},
	}
	if status != "" {
		c.Properties[statusPropID] = model.NewPropertyValue(status)
	}
	if len(deps) > 0 {
		c.Properties[depsPropID] = model.NewPropertyListValue(deps...)
	}
	return c
}

func flowsBetween(process *Process, sourceRef, targetRef string) int {
	n := 0
	for _, flow := range process.Flows {
		if flow.SourceRef == sourceRef && flow.TargetRef == targetRef {
			n++
		}
	}
	return n
}

func TestBuildFailsFastOnUnknownStatusProperty(t *testing.T) {
	_, err := Build(testBoard(), []*model.Card{card("card-a", "A", "opt-todo")}, MappingConfig{
		StatusPropertyID: "prop-missing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prop-missing")

	data, err := Export(testBoard(), nil, MappingConfig{StatusPropertyID: "prop-missing"})
	require.Error(t, err)
	assert.Nil(t, data)
}

func TestLanesFollowOptionOrderAndGroupMembership(t *testing.T) {
	cards := []*model.Card{
		card("card-a", "A", "opt-done"),
		card("card-b", "B", "opt-todo"),
		card("card-c", "C", "opt-todo"),
		card("card-d", "D", ""), // no status value: excluded entirely
	}
	definitions, err := Build(testBoard(), cards, MappingConfig{StatusPropertyID: statusPropID})
	require.NoError(t, err)
	process := definitions.Process

	require.Len(t, process.Lanes, 3)
	assert.Equal(t, "To Do", process.Lanes[0].Name)
	assert.Equal(t, "Doing", process.Lanes[1].Name)
	assert.Equal(t, "Done", process.Lanes[2].Name)
	require.NotNil(t, process.Lanes[0].Option)
	assert.Equal(t, "opt-todo", process.Lanes[0].Option.ID)

	// Three of four cards have a status; card-d maps to no task.
	require.Len(t, process.Tasks, 3)
	for _, task := range process.Tasks {
		assert.Equal(t, TaskKindUser, task.Kind)
		assert.NotEqual(t, "card-d", task.Card.ID)
	}

	// Lane task refs follow group order (card order within the option).
	assert.Len(t, process.Lanes[0].TaskIDs, 2)
	assert.Len(t, process.Lanes[1].TaskIDs, 0)
	assert.Len(t, process.Lanes[2].TaskIDs, 1)
}

func TestDependencyFlowsSuppressFallback(t *testing.T) {
	// Three cards in Done, chained A -> B -> C via the dependency property.
	cards := []*model.Card{
		card("card-a", "A", "opt-done"),
		card("card-b", "B", "opt-done", "card-a"),
		card("card-c", "C", "opt-done", "card-b"),
	}
	definitions, err := Build(testBoard(), cards, MappingConfig{
		StatusPropertyID:     statusPropID,
		EndStates:            []string{"opt-done"},
		DependencyPropertyID: depsPropID,
	})
	require.NoError(t, err)
	process := definitions.Process

	require.Len(t, process.Tasks, 3)
	taskA, taskB, taskC := process.Tasks[0], process.Tasks[1], process.Tasks[2]

	// Exactly the two dependency flows between tasks; the adjacent pairs
	// are already connected so the fallback pass adds nothing.
	assert.Equal(t, 1, flowsBetween(process, taskA.ID, taskB.ID))
	assert.Equal(t, 1, flowsBetween(process, taskB.ID, taskC.ID))

	interTask := 0
	for _, flow := range process.Flows {
		if flow.SourceRef != "StartEvent_1" && flow.TargetRef != "EndEvent_1" {
			interTask++
		}
	}
	assert.Equal(t, 2, interTask)

	// Done is an end state: its last task flows into the end event.
	assert.Equal(t, 1, flowsBetween(process, taskC.ID, "EndEvent_1"))
	// No start state configured: the start event falls back to the first
	// task overall.
	assert.Equal(t, 1, flowsBetween(process, "StartEvent_1", taskA.ID))

	assert.Len(t, process.Flows, 4)
}

func TestFallbackFlowsChainGroups(t *testing.T) {
	cards := []*model.Card{
		card("card-a", "A", "opt-todo"),
		card("card-b", "B", "opt-todo"),
		card("card-c", "C", "opt-todo"),
	}
	definitions, err := Build(testBoard(), cards, MappingConfig{
		StatusPropertyID: statusPropID,
		StartStates:      []string{"opt-todo"},
		EndStates:        []string{"opt-todo"},
	})
	require.NoError(t, err)
	process := definitions.Process

	// Every task has at least one incoming and one outgoing flow.
	for _, task := range process.Tasks {
		assert.NotEmpty(t, task.Incoming, "task %s has no incoming flow", task.ID)
		assert.NotEmpty(t, task.Outgoing, "task %s has no outgoing flow", task.ID)
	}
	require.Len(t, process.StartEvents, 1)
	require.Len(t, process.EndEvents, 1)
	assert.NotEmpty(t, process.StartEvents[0].Outgoing)
	assert.NotEmpty(t, process.EndEvents[0].Incoming)
}

func TestStartAndEndFallbacksWithSingleTask(t *testing.T) {
	cards := []*model.Card{card("card-a", "A", "opt-doing")}
	definitions, err := Build(testBoard(), cards, MappingConfig{
		StatusPropertyID: statusPropID,
		StartStates:      []string{"opt-todo"}, // empty group: fall back
		EndStates:        []string{"opt-done"}, // empty group: fall back
	})
	require.NoError(t, err)
	process := definitions.Process

	require.Len(t, process.Tasks, 1)
	task := process.Tasks[0]
	assert.Equal(t, 1, flowsBetween(process, "StartEvent_1", task.ID))
	assert.Equal(t, 1, flowsBetween(process, task.ID, "EndEvent_1"))
}

func TestEmptyBoardHasNoFlows(t *testing.T) {
	definitions, err := Build(testBoard(), nil, MappingConfig{StatusPropertyID: statusPropID})
	require.NoError(t, err)
	assert.Empty(t, definitions.Process.Tasks)
	assert.Empty(t, definitions.Process.Flows)
	assert.Len(t, definitions.Process.Lanes, 3)
}

func TestLayoutIsDeterministic(t *testing.T) {
	cards := []*model.Card{
		card("card-a", "A", "opt-todo"),
		card("card-b", "B", "opt-todo"),
		card("card-c", "C", "opt-done"),
	}
	cfg := MappingConfig{StatusPropertyID: statusPropID}

	definitions, err := Build(testBoard(), cards, cfg)
	require.NoError(t, err)
	diagram := definitions.Diagram

	boundsOf := func(elementID string) Bounds {
		for _, shape := range diagram.Shapes {
			if shape.ElementID == elementID {
				return shape.Bounds
			}
		}
		t.Fatalf("no shape for %s", elementID)
		return Bounds{}
	}

	assert.Equal(t, Bounds{X: 50, Y: 50, W: 36, H: 36}, boundsOf("StartEvent_1"))
	assert.Equal(t, Bounds{X: 160, Y: 50, W: 1200, H: 200}, boundsOf("Lane_1"))
	assert.Equal(t, Bounds{X: 160, Y: 250, W: 1200, H: 200}, boundsOf("Lane_2"))

	// Tasks sit left to right inside their lane at 150px spacing.
	assert.Equal(t, Bounds{X: 190, Y: 110, W: 100, H: 80}, boundsOf("Task_1"))
	assert.Equal(t, Bounds{X: 340, Y: 110, W: 100, H: 80}, boundsOf("Task_2"))
	assert.Equal(t, Bounds{X: 190, Y: 510, W: 100, H: 80}, boundsOf("Task_3"))

	// End event after the last of the three lanes.
	assert.Equal(t, Bounds{X: 50, Y: 680, W: 36, H: 36}, boundsOf("EndEvent_1"))

	// Edges run between the geometric centers of their endpoint shapes.
	require.NotEmpty(t, diagram.Edges)
	for _, edge := range diagram.Edges {
		require.Len(t, edge.Waypoints, 2)
	}

	// Rebuilding yields the identical diagram.
	again, err := Build(testBoard(), cards, cfg)
	require.NoError(t, err)
	assert.Equal(t, diagram, again.Diagram)
}
