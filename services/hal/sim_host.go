//go:build !rp2040 && !rp2350

package hal

import (
	"io"

	"ledtoggle-go/services/hal/internal/platform"
	"ledtoggle-go/types"
)

// Sim drives a host board: it presses the button and feeds the serial line.
type Sim struct {
	env    platform.Env
	button *platform.FakePin
	active bool
	stream *platform.StreamUART
}

// OpenSim builds a host board whose serial link reads r and writes w. r may
// be nil; bytes then only arrive through Inject.
func OpenSim(wiring types.Wiring, r io.Reader, w io.Writer) (*Board, *Sim, error) {
	env, err := platform.NewHostEnv(wiring, r, w)
	if err != nil {
		return nil, nil, err
	}
	s := &Sim{env: env, active: !wiring.Button.ActiveLow}
	s.button, _ = env.Fake(wiring.Button.Pin)
	s.stream, _ = env.Stream()
	return build(wiring, env), s, nil
}

// Press drives the button into its active level.
func (s *Sim) Press() { s.button.Set(s.active) }

// Release drives the button back to idle.
func (s *Sim) Release() { s.button.Set(!s.active) }

// Click is Press then Release: one edge-to-active.
func (s *Sim) Click() {
	s.Press()
	s.Release()
}

// Inject queues bytes on the serial line.
func (s *Sim) Inject(b []byte) { s.stream.Inject(b) }

// Toggles counts raw toggles on an MCU LED pin.
func (s *Sim) Toggles(pin int) int {
	p, ok := s.env.Fake(pin)
	if !ok {
		return 0
	}
	return p.Toggles()
}
