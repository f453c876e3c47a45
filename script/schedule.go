package script

import "slices"

// A schedule runs functions after delays measured in Update time.  Each
// event's time is relative to the event before it.
type schedule struct {
	events []event
}

type event struct {
	t float64
	f func() error
}

func (s *schedule) add(t float64, f func() error) {
	i := 0
	for ; i < len(s.events); i++ {
		e := &s.events[i]
		if t < e.t {
			e.t -= t
			break
		}
		t -= e.t
	}
	s.events = slices.Insert(s.events, i, event{t, f})
}

// step advances time by dt, running the functions that come due.  Functions
// may add events; those falling within dt also run.
func (s *schedule) step(dt float64) error {
	for len(s.events) > 0 {
		e := &s.events[0]
		if e.t > dt {
			e.t -= dt
			return nil
		}
		dt -= e.t
		f := e.f
		*e = event{}
		s.events = s.events[1:]
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}
