//go:build !debug

package synth

// cycleGuard detects evaluation cycles only in builds with the debug tag.
type cycleGuard struct{}

func (cycleGuard) grow(int)     {}
func (cycleGuard) enter(NodeID) {}
func (cycleGuard) leave(NodeID) {}
