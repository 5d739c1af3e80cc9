package bpmn

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardio/boardio/pkg/model"
)

func TestSerializeDocument(t *testing.T) {
	cards := []*model.Card{
		card("card-a", "Review <draft> & sign-off", "opt-todo"),
		card("card-b", "B", "opt-todo"),
	}
	data, err := Export(testBoard(), cards, MappingConfig{
		StatusPropertyID: statusPropID,
		StartStates:      []string{"opt-todo"},
	})
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasPrefix(text, `<?xml version="1.0" encoding="UTF-8"?>`))

	// All five standard namespace declarations.
	for _, ns := range []string{
		`xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"`,
		`xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI"`,
		`xmlns:dc="http://www.omg.org/spec/DD/20100524/DC"`,
		`xmlns:di="http://www.omg.org/spec/DD/20100524/DI"`,
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`,
	} {
		assert.Contains(t, text, ns)
	}

	assert.Contains(t, text, `<bpmn:process id="Process_1" name="Release plan" isExecutable="false">`)
	assert.Contains(t, text, `<bpmn:laneSet id="LaneSet_1">`)
	assert.Contains(t, text, `<bpmn:lane id="Lane_1" name="To Do">`)
	assert.Contains(t, text, `<bpmn:flowNodeRef>Task_1</bpmn:flowNodeRef>`)
	assert.Contains(t, text, `<bpmn:startEvent id="StartEvent_1" name="Start">`)
	assert.Contains(t, text, `<bpmn:endEvent id="EndEvent_1" name="End">`)
	assert.Contains(t, text, `<bpmn:sequenceFlow id="Flow_1"`)

	// Card titles are escaped like any other archive text.
	assert.Contains(t, text, `name="Review &lt;draft&gt; &amp; sign-off"`)
	assert.NotContains(t, text, "<draft>")

	// Diagram plane with bounds and waypoints.
	assert.Contains(t, text, `<bpmndi:BPMNPlane id="BPMNPlane_1" bpmnElement="Process_1">`)
	assert.Contains(t, text, `<bpmndi:BPMNShape id="StartEvent_1_di" bpmnElement="StartEvent_1">`)
	assert.Contains(t, text, `<dc:Bounds x="50" y="50" width="36" height="36"/>`)
	assert.Contains(t, text, `<bpmndi:BPMNEdge id="Flow_1_di" bpmnElement="Flow_1">`)
	assert.Contains(t, text, `<di:waypoint `)
}

func TestSerializeOmitsLaneSetWithoutLanes(t *testing.T) {
	definitions := &Definitions{
		Process: &Process{ID: "Process_1", Name: "empty"},
		Diagram: &Diagram{},
	}
	text := string(Serialize(definitions))
	assert.NotContains(t, text, "bpmn:laneSet")
}
