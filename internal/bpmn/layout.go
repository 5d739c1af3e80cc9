package bpmn

// Layout constants, in pixels. Fixed rather than configurable so the same
// process always renders to the same diagram.
const (
	originX = 50
	originY = 50

	laneOffsetX = 160
	laneWidth   = 1200
	laneHeight  = 200

	taskWidth    = 100
	taskHeight   = 80
	taskSpacingX = 150
	laneMarginX  = 30

	eventSize = 36
)

// layout computes the visual diagram for a finished process: the start
// event at the fixed origin, lanes stacked vertically, tasks left-to-right
// within their lane, the end event after the last lane, and every flow as a
// straight line between the centers of its endpoint shapes.
func layout(process *Process) *Diagram {
	diagram := &Diagram{}
	boundsByElement := map[string]Bounds{}

	place := func(elementID string, bounds Bounds) {
		boundsByElement[elementID] = bounds
		diagram.Shapes = append(diagram.Shapes, Shape{
			ID:        elementID + "_di",
			ElementID: elementID,
			Bounds:    bounds,
		})
	}

	for _, event := range process.StartEvents {
		place(event.ID, Bounds{X: originX, Y: originY, W: eventSize, H: eventSize})
	}

	taskSlot := map[string]int{}
	for laneIndex, lane := range process.Lanes {
		laneY := originY + float64(laneIndex)*laneHeight
		place(lane.ID, Bounds{X: laneOffsetX, Y: laneY, W: laneWidth, H: laneHeight})
		for slot, taskID := range lane.TaskIDs {
			taskSlot[taskID] = slot
			place(taskID, Bounds{
				X: laneOffsetX + laneMarginX + float64(slot)*taskSpacingX,
				Y: laneY + (laneHeight-taskHeight)/2,
				W: taskWidth,
				H: taskHeight,
			})
		}
	}

	// Tasks not referenced by any lane still get a shape.
	for _, task := range process.Tasks {
		if _, ok := boundsByElement[task.ID]; !ok {
			place(task.ID, Bounds{X: laneOffsetX + laneMarginX, Y: originY, W: taskWidth, H: taskHeight})
		}
	}

	endY := originY + float64(len(process.Lanes))*laneHeight + laneMarginX
	for _, event := range process.EndEvents {
		place(event.ID, Bounds{X: originX, Y: endY, W: eventSize, H: eventSize})
	}

	for _, flow := range process.Flows {
		source, okSource := boundsByElement[flow.SourceRef]
		target, okTarget := boundsByElement[flow.TargetRef]
		if !okSource || !okTarget {
			continue
		}
		diagram.Edges = append(diagram.Edges, Edge{
			ID:        flow.ID + "_di",
			ElementID: flow.ID,
			Waypoints: []Waypoint{source.Center(), target.Center()},
		})
	}

	return diagram
}
