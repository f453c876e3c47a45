package synth

import "math"

// A Control is a named value that ramps linearly from where it was when its
// target was last set to the new target.
//
// Progress is measured as the fraction of the span already covered.  Each
// set starts a fresh ramp from the current value, so the ramp time always
// applies to the remaining distance.
type Control struct {
	Name                 string
	value, begin, target float64
	ramp                 float64
}

func newControl(name string, x float64) Control {
	return Control{Name: name, value: x, begin: x, target: x}
}

func (c *Control) Value() float64 { return c.value }

func (c *Control) set(target, ramp float64) {
	c.begin = c.value
	c.target = target
	c.ramp = ramp
}

func (c *Control) step(dt float64) {
	span := c.target - c.begin
	if c.ramp < 1e-6 || math.Abs(span) < 1e-6 {
		c.value = c.target
		return
	}
	if (c.value-c.begin)/span >= 1 {
		c.value = c.target
		return
	}
	c.value += span / c.ramp * dt
	if (c.value-c.begin)/span >= 1-1e-9 {
		c.value = c.target
	}
}

// A Trigger is armed for a single sample after being tripped.
type Trigger struct {
	Name  string
	armed bool
}
