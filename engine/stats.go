package engine

import "github.com/achilleasa/lumenpreview/incremental"

// LightStat is a point-in-time snapshot of one light's refinement progress,
// grounded on the teacher's renderer.Stats block-completion counters
// (renderer/stats.go) generalized from "blocks done" to "refinement level".
type LightStat struct {
	ObjectID          string
	State             string
	Level             int
	TotalContribution float32
}

// Stats is a snapshot of scheduler progress, exposed for the soak-test CLI
// and for tests; it never mutates engine state.
type Stats struct {
	Iterations uint64
	Lights     []LightStat
}

// Stats returns a snapshot of the current scheduler state. Safe to call
// only between Run iterations (e.g. from the same goroutine that drives
// Run, or after Run has returned); the engine does not synchronize access
// from a second goroutine.
func (e *Engine) Stats() Stats {
	lights := e.arena.All()
	out := Stats{
		Iterations: e.iterations,
		Lights:     make([]LightStat, 0, len(lights)),
	}
	for _, ls := range lights {
		out.Lights = append(out.Lights, LightStat{
			ObjectID:          ls.ObjectID,
			State:             stateName(ls.State),
			Level:             ls.Level,
			TotalContribution: ls.TotalContribution,
		})
	}
	return out
}

func stateName(s incremental.RunState) string {
	return s.String()
}
