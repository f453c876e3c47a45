//go:build debug

package synth

// cycleGuard marks the nodes whose evaluation is in progress; reaching one of
// them again means the graph has a cycle.
type cycleGuard struct {
	visiting []bool
}

func (g *cycleGuard) grow(n int) {
	for len(g.visiting) < n {
		g.visiting = append(g.visiting, false)
	}
}

func (g *cycleGuard) enter(id NodeID) {
	if g.visiting[id] {
		panic(&CycleError{Node: id})
	}
	g.visiting[id] = true
}

func (g *cycleGuard) leave(id NodeID) { g.visiting[id] = false }
