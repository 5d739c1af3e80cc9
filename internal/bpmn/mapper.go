package bpmn

import (
	"fmt"

	"github.com/boardio/boardio/pkg/model"
)

// builder threads the id counters and node indexes through one process
// construction. Counters are local to the call; ids are deterministic
// within a single export and carry no identity across calls.
type builder struct {
	process     *Process
	flowSeq     int
	taskByCard  map[string]*Task
	taskIndex   map[string]*Task
	eventIndex  map[string]*Event
	connected   map[[2]string]bool
	statusGroup map[string][]*Task
	groupOrder  []string
}

// Build constructs the process graph for a board and its cards. The single
// fatal condition is a status property id that does not resolve against the
// board's property templates; every other irregularity degrades via the
// fallback rules.
func Build(board *model.Board, cards []*model.Card, cfg MappingConfig) (*Definitions, error) {
	statusProperty, ok := board.PropertyTemplateByID(cfg.StatusPropertyID)
	if !ok {
		return nil, fmt.Errorf("status property %q not found on board %q", cfg.StatusPropertyID, board.ID)
	}

	b := &builder{
		process: &Process{
			ID:   "Process_1",
			Name: board.Title,
		},
		taskByCard:  map[string]*Task{},
		taskIndex:   map[string]*Task{},
		eventIndex:  map[string]*Event{},
		connected:   map[[2]string]bool{},
		statusGroup: map[string][]*Task{},
	}

	b.buildLanesAndTasks(statusProperty, cards)
	b.buildDependencyFlows(cfg.DependencyPropertyID)
	b.buildFallbackFlows()
	b.buildStartEvent(cfg.StartStates)
	b.buildEndEvent(cfg.EndStates)

	diagram := layout(b.process)
	return &Definitions{Process: b.process, Diagram: diagram}, nil
}

// buildLanesAndTasks partitions cards by status option, in the option's
// declared order, and maps each grouped card to one user task. Cards with
// no value for the status property are excluded from every group and thus
// from the diagram.
func (b *builder) buildLanesAndTasks(statusProperty *model.PropertyTemplate, cards []*model.Card) {
	taskSeq := 0
	for i := range statusProperty.Options {
		option := &statusProperty.Options[i]
		lane := &Lane{
			ID:     fmt.Sprintf("Lane_%d", i+1),
			Name:   option.Value,
			Option: option,
		}

		for _, card := range cards {
			value, ok := card.PropertyValue(statusProperty.ID)
			if !ok || value.String() != option.ID {
				continue
			}
			taskSeq++
			task := &Task{
				ID:     fmt.Sprintf("Task_%d", taskSeq),
				Name:   card.Title,
				Kind:   TaskKindUser,
				LaneID: lane.ID,
				Card:   card,
			}
			lane.TaskIDs = append(lane.TaskIDs, task.ID)
			b.process.Tasks = append(b.process.Tasks, task)
			b.taskByCard[card.ID] = task
			b.taskIndex[task.ID] = task
			b.statusGroup[option.ID] = append(b.statusGroup[option.ID], task)
		}

		b.process.Lanes = append(b.process.Lanes, lane)
		b.groupOrder = append(b.groupOrder, option.ID)
	}
}

// buildDependencyFlows emits one flow per dependency reference: the
// referenced card's task flows into the dependent card's task. References
// to cards outside the diagram are skipped.
func (b *builder) buildDependencyFlows(dependencyPropertyID string) {
	if dependencyPropertyID == "" {
		return
	}
	for _, task := range b.process.Tasks {
		value, ok := task.Card.PropertyValue(dependencyPropertyID)
		if !ok {
			continue
		}
		for _, dependencyID := range value.Values() {
			source, ok := b.taskByCard[dependencyID]
			if !ok {
				continue
			}
			b.addFlow(source.ID, task.ID)
		}
	}
}

// buildFallbackFlows links each adjacent pair of tasks within a status
// group, in group order, unless a dependency flow already connects the pair
// in either direction. Connectivity over accuracy: every task in a group of
// two or more ends up with at least one flow.
func (b *builder) buildFallbackFlows() {
	for _, optionID := range b.groupOrder {
		group := b.statusGroup[optionID]
		for i := 0; i+1 < len(group); i++ {
			a, z := group[i], group[i+1]
			if b.connected[[2]string{a.ID, z.ID}] || b.connected[[2]string{z.ID, a.ID}] {
				continue
			}
			b.addFlow(a.ID, z.ID)
		}
	}
}

// buildStartEvent connects the synthetic start event to the first task of
// each configured start-state group, falling back to the first task overall
// when no start-state group has a member.
func (b *builder) buildStartEvent(startStates []string) {
	event := &Event{ID: "StartEvent_1", Name: "Start"}
	b.process.StartEvents = append(b.process.StartEvents, event)
	b.eventIndex[event.ID] = event

	wired := false
	for _, optionID := range startStates {
		if group := b.statusGroup[optionID]; len(group) > 0 {
			b.addFlow(event.ID, group[0].ID)
			wired = true
		}
	}
	if !wired && len(b.process.Tasks) > 0 {
		b.addFlow(event.ID, b.process.Tasks[0].ID)
	}
}

// buildEndEvent is the symmetric counterpart: the last task of each
// configured end-state group flows into the synthetic end event, with the
// same no-match fallback to the last task overall.
func (b *builder) buildEndEvent(endStates []string) {
	event := &Event{ID: "EndEvent_1", Name: "End"}
	b.process.EndEvents = append(b.process.EndEvents, event)
	b.eventIndex[event.ID] = event

	wired := false
	for _, optionID := range endStates {
		if group := b.statusGroup[optionID]; len(group) > 0 {
			b.addFlow(group[len(group)-1].ID, event.ID)
			wired = true
		}
	}
	if !wired && len(b.process.Tasks) > 0 {
		b.addFlow(b.process.Tasks[len(b.process.Tasks)-1].ID, event.ID)
	}
}

// addFlow appends a sequence flow and records it on both endpoints.
func (b *builder) addFlow(sourceRef, targetRef string) {
	b.flowSeq++
	flow := &SequenceFlow{
		ID:        fmt.Sprintf("Flow_%d", b.flowSeq),
		SourceRef: sourceRef,
		TargetRef: targetRef,
	}
	b.process.Flows = append(b.process.Flows, flow)
	b.connected[[2]string{sourceRef, targetRef}] = true

	if task, ok := b.taskIndex[sourceRef]; ok {
		task.Outgoing = append(task.Outgoing, flow.ID)
	} else if event, ok := b.eventIndex[sourceRef]; ok {
		event.Outgoing = append(event.Outgoing, flow.ID)
	}
	if task, ok := b.taskIndex[targetRef]; ok {
		task.Incoming = append(task.Incoming, flow.ID)
	} else if event, ok := b.eventIndex[targetRef]; ok {
		event.Incoming = append(event.Incoming, flow.ID)
	}
}
