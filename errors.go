package synth

import "fmt"

// A CycleError reports a node that was reached again while its own inputs
// were being evaluated.  It is only raised in builds with the debug tag.
type CycleError struct {
	Node NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("synth: evaluation cycle through node %d", e.Node)
}
