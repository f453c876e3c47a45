// Package midi reads channel messages from a raw MIDI byte stream, such as
// a /dev/midi device, and queues them for a control loop to poll.
package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

type Kind uint8

const (
	None Kind = iota
	Note
	Control
	Bend
)

func (k Kind) String() string {
	switch k {
	case Note:
		return "note"
	case Control:
		return "control"
	case Bend:
		return "bend"
	}
	return "none"
}

// A Message is a note, control change or pitch bend.  For notes A and B are
// the key and velocity (velocity 0 for note off); for control changes the
// controller and value; for pitch bends the low and high 7 bits.
type Message struct {
	Kind    Kind
	Channel uint8
	A, B    uint8
}

// Bend returns the pitch bend of a Bend message, in [-8192, 8191].
func (m Message) Bend() int {
	return int(m.B)<<7 | int(m.A) - 8192
}

func (m Message) String() string {
	return fmt.Sprintf("%s ch=%d %d %d", m.Kind, m.Channel, m.A, m.B)
}

// classify converts a complete channel message.  Kinds other than notes,
// control changes and pitch bends report false.
func classify(raw midi.Message) (Message, bool) {
	var ch, a, b uint8
	switch {
	case raw.GetNoteStart(&ch, &a, &b):
		return Message{Note, ch, a, b}, true
	case raw.GetNoteEnd(&ch, &a):
		return Message{Note, ch, a, 0}, true
	case raw.GetControlChange(&ch, &a, &b):
		return Message{Control, ch, a, b}, true
	}
	var rel int16
	var abs uint16
	if raw.GetPitchBend(&ch, &rel, &abs) {
		return Message{Bend, ch, uint8(abs & 0x7f), uint8(abs >> 7)}, true
	}
	return Message{}, false
}
