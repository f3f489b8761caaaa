// Package algoviz records classic search, sort, and grid pathfinding
// algorithms as replayable step traces.
//
// Every algorithm runs to completion synchronously and returns its result
// together with a [Trace]: the ordered, immutable list of [Step] events it
// produced. Re-running an algorithm on the same input yields the same trace.
//
// # Quick start
//
//	res := algoviz.BubbleSort([]int{3, 1, 2})
//	fmt.Println(res.Sorted)      // [1 2 3]
//	fmt.Println(res.Trace.Len()) // number of recorded events
//
// Algorithms can also be selected by identifier through a [Registry]:
//
//	reg := algoviz.NewRegistry()
//	alg, err := reg.Lookup(algoviz.IDAStar)
//	if err != nil {
//		return err
//	}
//	out := alg.Run(algoviz.Input{Grid: walls, Start: start, End: end})
//
// # Playback
//
// A [Player] replays a trace on a wall-clock timer. It owns exactly one
// timer and moves through the Idle, Playing, Paused, and Finished states:
//
//	p := algoviz.NewPlayer(algoviz.PlayerConfig{BaseInterval: 300 * time.Millisecond})
//	p.SetSource(algoviz.Source(alg, in))
//	p.OnStep(func(cursor int, s algoviz.Step) { ... })
//	p.Play()
//
// Renderers project the trace at the current cursor with [ArrayFrameAt] and
// [GridFrameAt]. The ebiten renderer lives in the render subpackage.
//
// # Preconditions
//
// Binary, jump, and interpolation search assume sorted input and do not check
// it. Pathfinding assumes start and end lie inside the grid. An unreachable
// target is a normal result (index -1 or an empty path), never an error.
package algoviz
