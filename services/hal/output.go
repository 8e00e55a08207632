package hal

import (
	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/platform"
	"ledtoggle-go/types"
)

// Output is one LED line. Levels are logical: On means lit, whatever the
// wiring polarity.
type Output struct {
	name      string
	pin       halcore.GPIOPin
	activeLow bool
	err       error
}

func newOutput(name string, w types.LEDWiring, env platform.Env) *Output {
	pin, err := env.Output(w)
	return &Output{name: name, pin: pin, activeLow: w.ActiveLow, err: err}
}

func (o *Output) Name() string { return o.name }

// Ready reports whether the port behind the line is usable.
func (o *Output) Ready() bool {
	return o != nil && o.err == nil && o.pin != nil && halcore.IsReady(o.pin)
}

// Configure makes the line an output, initially on or off.
func (o *Output) Configure(on bool) error {
	if !o.Ready() {
		return o.notReady()
	}
	return o.pin.ConfigureOutput(on != o.activeLow)
}

// Toggle inverts the line. It is atomic with respect to the button interrupt
// and never blocks.
func (o *Output) Toggle() { o.pin.Toggle() }

// On reports the logical state.
func (o *Output) On() bool { return o.pin.Get() != o.activeLow }

func (o *Output) notReady() error {
	if o.err != nil {
		return &errcode.E{C: errcode.NotReady, Op: o.name, Err: o.err}
	}
	return &errcode.E{C: errcode.NotReady, Op: o.name}
}
