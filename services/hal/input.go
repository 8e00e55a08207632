package hal

import (
	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/dispatch"
	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/platform"
	"ledtoggle-go/types"
)

// Input is the button line.
type Input struct {
	name      string
	pin       halcore.IRQPin
	activeLow bool
	pull      halcore.Pull
	loop      *dispatch.Loop
	err       error
	cancel    func()
}

func newInput(name string, w types.ButtonWiring, env platform.Env, loop *dispatch.Loop) *Input {
	pin, err := env.Input(w)
	return &Input{
		name:      name,
		pin:       pin,
		activeLow: w.ActiveLow,
		pull:      platform.ToPull(w.Pull),
		loop:      loop,
		err:       err,
	}
}

func (in *Input) Name() string { return in.name }

func (in *Input) Ready() bool {
	return in != nil && in.err == nil && in.pin != nil && halcore.IsReady(in.pin)
}

// Configure makes the line an input with the wired pull.
func (in *Input) Configure() error {
	if !in.Ready() {
		return &errcode.E{C: errcode.NotReady, Op: in.name, Err: in.err}
	}
	return in.pin.ConfigureInput(in.pull)
}

// Edge names the edge-to-active transition ("falling" for active-low wiring).
func (in *Input) Edge() string {
	return halcore.EdgeToString(halcore.EdgeToActive(in.activeLow))
}

// OnActive arms the interrupt on the edge into the active level. h runs on
// the dispatch goroutine once per qualifying edge, never in interrupt context.
func (in *Input) OnActive(h func()) error {
	if h == nil {
		return errcode.InvalidParams
	}
	if !in.Ready() {
		return &errcode.E{C: errcode.NotReady, Op: in.name, Err: in.err}
	}
	edge := halcore.EdgeToActive(in.activeLow)
	cancel, err := in.loop.RegisterInput(in.name, in.pin, edge, func(dispatch.InputEvent) { h() })
	if err != nil {
		return err
	}
	in.cancel = cancel
	return nil
}

// Active reports whether the button is currently held.
func (in *Input) Active() bool { return in.pin.Get() != in.activeLow }

func (in *Input) disarm() {
	if in != nil && in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
}
