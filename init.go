package synth

import (
	"fmt"
	"reflect"
)

type Initer interface {
	InitAudio(Params)
}

type Params struct {
	SampleRate float64
	BufferSize int // frames per chunk the renderer should expect
	Channels   int // 1 or 2
}

func (p *Params) InitAudio(q Params) { *p = q }

func (p Params) withDefaults() Params {
	if p.SampleRate <= 0 {
		p.SampleRate = 48000
	}
	if p.BufferSize <= 0 {
		p.BufferSize = 256
	}
	if p.Channels != 1 {
		p.Channels = 2
	}
	return p
}

// Init calls InitAudio on x, or, if x is not an Initer, on every Initer
// reachable through x's struct fields and slice elements.
func Init(x interface{}, p Params) {
	if err := initVal(reflect.ValueOf(x), p); err != nil {
		panic("synth.Init: " + err.Error())
	}
}

var initerType = reflect.TypeOf(new(Initer)).Elem()

func initVal(v reflect.Value, p Params) (err error) {
	if !v.IsValid() || v.Kind() == reflect.Ptr && v.IsNil() || !v.CanInterface() {
		return
	}

	v = reflect.Indirect(v)
	if v.CanAddr() && v.Type().Name() != "" && v.Kind() != reflect.Interface {
		v = v.Addr()
	}
	if x, ok := v.Interface().(Initer); ok {
		x.InitAudio(p)
		return
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("%s\n\t%#v", err, v)
		}
	}()
	if t := v.Type(); reflect.PointerTo(t).Implements(initerType) {
		return fmt.Errorf("%s does not implement synth.Initer but *%s does.\nInit stack:", t, t)
	}

	v = reflect.Indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if err = initVal(v.Field(i), p); err != nil {
				return
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			if err = initVal(v.Index(i), p); err != nil {
				return
			}
		}
	}

	return
}
