package platform

import (
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/halcore"
)

// Expander drives LED lines through an MCP23017 on I²C.
// Bus failures during Set/Toggle are counted, not returned: output handlers
// have no error path. The driver caches output levels and skips writes that
// change nothing; a failed write leaves that cache unchanged, so after a lost
// toggle the cache and the LED agree only if the chip ignored the write.
type Expander struct {
	mu   sync.Mutex
	dev  *mcp23017.Device
	addr uint8
	errs uint32
}

func NewExpander(bus drivers.I2C, addr uint8) (*Expander, error) {
	if bus == nil {
		return nil, errcode.UnknownBus
	}
	dev, err := mcp23017.NewI2C(bus, addr)
	if err != nil {
		return nil, errcode.Wrap(errcode.NotReady, "mcp23017", err)
	}
	return &Expander{dev: dev, addr: addr}, nil
}

func (e *Expander) Ready() bool { return e != nil && e.dev != nil }

func (e *Expander) Addr() uint8 { return e.addr }

// Errors counts failed bus transactions since creation.
func (e *Expander) Errors() uint32 { return atomic.LoadUint32(&e.errs) }

func (e *Expander) Pin(n int) (*ExpanderPin, bool) {
	if n < 0 || n >= mcp23017.PinCount {
		return nil, false
	}
	return &ExpanderPin{e: e, n: n, pin: e.dev.Pin(n)}, true
}

func (e *Expander) note(err error) {
	if err != nil {
		atomic.AddUint32(&e.errs, 1)
	}
}

// ExpanderPin implements halcore.GPIOPin on one expander channel.
type ExpanderPin struct {
	e   *Expander
	n   int
	pin mcp23017.Pin
}

var _ halcore.GPIOPin = (*ExpanderPin)(nil)

func (p *ExpanderPin) Ready() bool { return p.e.Ready() }

func (p *ExpanderPin) ConfigureInput(pull halcore.Pull) error {
	mode := mcp23017.Input
	switch pull {
	case halcore.PullUp:
		mode |= mcp23017.Pullup
	case halcore.PullDown:
		return errcode.Unsupported
	}
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	return p.pin.SetMode(mode)
}

// ConfigureOutput latches the initial level before switching direction so
// the line never glitches.
func (p *ExpanderPin) ConfigureOutput(initial bool) error {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()
	if err := p.pin.Set(initial); err != nil {
		return err
	}
	return p.pin.SetMode(mcp23017.Output)
}

func (p *ExpanderPin) Set(level bool) {
	p.e.mu.Lock()
	p.e.note(p.pin.Set(level))
	p.e.mu.Unlock()
}

func (p *ExpanderPin) Get() bool {
	p.e.mu.Lock()
	v, err := p.pin.Get()
	p.e.mu.Unlock()
	p.e.note(err)
	return v
}

func (p *ExpanderPin) Toggle() {
	p.e.mu.Lock()
	p.e.note(p.pin.Toggle())
	p.e.mu.Unlock()
}

func (p *ExpanderPin) Number() int { return p.n }
