package midi

import "gitlab.com/gomidi/midi/v2"

// A parser frames a raw byte stream into channel messages.  It keeps
// running status, skips real-time bytes wherever they occur and ignores
// system exclusive and system common data.
type parser struct {
	status byte
	data   [2]byte
	n      int
}

// feed consumes one byte and reports a complete channel message.
func (p *parser) feed(c byte) (midi.Message, bool) {
	switch {
	case c >= 0xf8:
		return nil, false
	case c >= 0xf0:
		p.status, p.n = 0, 0
		return nil, false
	case c >= 0x80:
		p.status, p.n = c, 0
		return nil, false
	case p.status == 0:
		return nil, false
	}
	p.data[p.n] = c
	p.n++
	if p.n < dataLen(p.status) {
		return nil, false
	}
	p.n = 0
	if dataLen(p.status) == 1 {
		return midi.Message{p.status, p.data[0]}, true
	}
	return midi.Message{p.status, p.data[0], p.data[1]}, true
}

func dataLen(status byte) int {
	switch status & 0xf0 {
	case 0xc0, 0xd0:
		return 1
	}
	return 2
}
