package bpmn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/boardio/boardio/internal/xmlarchive"
	"github.com/boardio/boardio/pkg/model"
)

// The five standard namespace declarations of a BPMN 2.0 document.
const (
	nsBPMN   = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	nsBPMNDI = "http://www.omg.org/spec/BPMN/20100524/DI"
	nsDC     = "http://www.omg.org/spec/DD/20100524/DC"
	nsDI     = "http://www.omg.org/spec/DD/20100524/DI"
	nsXSI    = "http://www.w3.org/2001/XMLSchema-instance"
)

// Export builds the process for a board and serializes it in one step.
func Export(board *model.Board, cards []*model.Card, cfg MappingConfig) ([]byte, error) {
	definitions, err := Build(board, cards, cfg)
	if err != nil {
		return nil, err
	}
	return Serialize(definitions), nil
}

// Serialize renders the definitions document as BPMN 2.0 XML. Name and
// label fields pass through the archive escaping discipline.
func Serialize(definitions *Definitions) []byte {
	process := definitions.Process

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<bpmn:definitions xmlns:bpmn=%q xmlns:bpmndi=%q xmlns:dc=%q xmlns:di=%q xmlns:xsi=%q id="Definitions_1" targetNamespace="http://bpmn.io/schema/bpmn">`+"\n",
		nsBPMN, nsBPMNDI, nsDC, nsDI, nsXSI)

	fmt.Fprintf(&b, "  <bpmn:process id=%q name=%q isExecutable=\"false\">\n",
		esc(process.ID), esc(process.Name))

	if len(process.Lanes) > 0 {
		b.WriteString("    <bpmn:laneSet id=\"LaneSet_1\">\n")
		for _, lane := range process.Lanes {
			fmt.Fprintf(&b, "      <bpmn:lane id=%q name=%q>\n", esc(lane.ID), esc(lane.Name))
			for _, taskID := range lane.TaskIDs {
				fmt.Fprintf(&b, "        <bpmn:flowNodeRef>%s</bpmn:flowNodeRef>\n", esc(taskID))
			}
			b.WriteString("      </bpmn:lane>\n")
		}
		b.WriteString("    </bpmn:laneSet>\n")
	}

	for _, event := range process.StartEvents {
		fmt.Fprintf(&b, "    <bpmn:startEvent id=%q name=%q>\n", esc(event.ID), esc(event.Name))
		writeFlowRefs(&b, event.Incoming, event.Outgoing)
		b.WriteString("    </bpmn:startEvent>\n")
	}

	for _, task := range process.Tasks {
		fmt.Fprintf(&b, "    <bpmn:userTask id=%q name=%q>\n", esc(task.ID), esc(task.Name))
		writeFlowRefs(&b, task.Incoming, task.Outgoing)
		b.WriteString("    </bpmn:userTask>\n")
	}

	for _, event := range process.EndEvents {
		fmt.Fprintf(&b, "    <bpmn:endEvent id=%q name=%q>\n", esc(event.ID), esc(event.Name))
		writeFlowRefs(&b, event.Incoming, event.Outgoing)
		b.WriteString("    </bpmn:endEvent>\n")
	}

	for _, flow := range process.Flows {
		fmt.Fprintf(&b, "    <bpmn:sequenceFlow id=%q sourceRef=%q targetRef=%q/>\n",
			esc(flow.ID), esc(flow.SourceRef), esc(flow.TargetRef))
	}
	b.WriteString("  </bpmn:process>\n")

	b.WriteString("  <bpmndi:BPMNDiagram id=\"BPMNDiagram_1\">\n")
	fmt.Fprintf(&b, "    <bpmndi:BPMNPlane id=\"BPMNPlane_1\" bpmnElement=%q>\n", esc(process.ID))
	for _, shape := range definitions.Diagram.Shapes {
		fmt.Fprintf(&b, "      <bpmndi:BPMNShape id=%q bpmnElement=%q>\n", esc(shape.ID), esc(shape.ElementID))
		fmt.Fprintf(&b, "        <dc:Bounds x=%q y=%q width=%q height=%q/>\n",
			coord(shape.Bounds.X), coord(shape.Bounds.Y), coord(shape.Bounds.W), coord(shape.Bounds.H))
		b.WriteString("      </bpmndi:BPMNShape>\n")
	}
	for _, edge := range definitions.Diagram.Edges {
		fmt.Fprintf(&b, "      <bpmndi:BPMNEdge id=%q bpmnElement=%q>\n", esc(edge.ID), esc(edge.ElementID))
		for _, wp := range edge.Waypoints {
			fmt.Fprintf(&b, "        <di:waypoint x=%q y=%q/>\n", coord(wp.X), coord(wp.Y))
		}
		b.WriteString("      </bpmndi:BPMNEdge>\n")
	}
	b.WriteString("    </bpmndi:BPMNPlane>\n")
	b.WriteString("  </bpmndi:BPMNDiagram>\n")
	b.WriteString("</bpmn:definitions>\n")

	return []byte(b.String())
}

func writeFlowRefs(b *strings.Builder, incoming, outgoing []string) {
	for _, id := range incoming {
		fmt.Fprintf(b, "      <bpmn:incoming>%s</bpmn:incoming>\n", esc(id))
	}
	for _, id := range outgoing {
		fmt.Fprintf(b, "      <bpmn:outgoing>%s</bpmn:outgoing>\n", esc(id))
	}
}

func esc(s string) string {
	return xmlarchive.Escape(s)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
