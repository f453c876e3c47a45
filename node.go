package synth

import (
	"fmt"
	"math"
)

type NodeType uint8

const (
	Sine NodeType = iota
	Triangle
	Square
	Saw
	Noise
	Time

	Fade
	ADSR

	Add
	Subtract
	Multiply
	Divide
	Pow
	Negate

	LowPass
	HighPass

	ControlValue
)

var nodeTypeNames = [...]string{
	Sine:         "sine",
	Triangle:     "triangle",
	Square:       "square",
	Saw:          "saw",
	Noise:        "noise",
	Time:         "time",
	Fade:         "fade",
	ADSR:         "adsr",
	Add:          "add",
	Subtract:     "subtract",
	Multiply:     "multiply",
	Divide:       "divide",
	Pow:          "pow",
	Negate:       "negate",
	LowPass:      "lowpass",
	HighPass:     "highpass",
	ControlValue: "control",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", t)
}

const MaxInputs = 8

type (
	NodeID    uint32
	ControlID uint32
	TriggerID uint32
)

// GlobalTrigger refers to a synth's reserved trigger, which is tripped by
// name with GlobalTriggerName and is armed when the synth is created.
const (
	GlobalTrigger     TriggerID = math.MaxUint32
	GlobalTriggerName           = "<global>"
)

// An Input is a node argument: either a Const or the output of another node
// of the same synth.
type Input interface {
	input() param
}

type Const float64

func (c Const) input() param   { return param{value: float64(c)} }
func (id NodeID) input() param { return param{node: id, isNode: true} }

type param struct {
	value  float64
	node   NodeID
	isNode bool
}

type node struct {
	kind    NodeType
	in      [MaxInputs]param
	trigger TriggerID
	control ControlID

	// phase is oscillator phase, envelope position, or high-pass memory.
	phase  float64
	output float64
	frame  uint64
}
