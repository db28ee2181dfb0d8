// Package animation evaluates entrance animations frame by frame.
//
// Every element of a positioned graph enters with a damped spring that
// starts at its delay: the start_ms of its resolved timeline entry, or its
// index times a fixed stagger when the timeline has nothing for it. Spring
// progress drives opacity, scale and vertical offset according to the
// entry's preset.
//
// Evaluation is a pure function of the frame number (or time in
// milliseconds). It never reads a clock, so a renderer may evaluate frames
// out of order or from parallel workers sharing one [Evaluator]:
//
//	ev, err := animation.New(result, timeline, animation.Config{FPS: 30})
//	if err != nil {
//	    return err
//	}
//	for f := 0; f <= ev.DurationFrames(); f++ {
//	    frame := ev.Frame(f)
//	    // draw frame.Nodes, frame.Edges, frame.Connectors
//	}
package animation
