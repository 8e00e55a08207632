// services/hal/internal/platform/factories_host.go
//go:build !rp2040 && !rp2350

package platform

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/platform/boards"
	"ledtoggle-go/types"
	"ledtoggle-go/x/ring"
)

// Default builds the host environment: fake pins, an I²C bus with an
// emulated MCP23017 when the wiring asks for one, and stdin/stdout as the
// serial link.
func Default(w types.Wiring) (Env, error) {
	return NewHostEnv(w, os.Stdin, os.Stdout)
}

// NewHostEnv is Default with an explicit serial stream. r may be nil, in which
// case bytes only arrive through StreamUART.Inject.
func NewHostEnv(w types.Wiring, r io.Reader, wr io.Writer) (Env, error) {
	b := boards.Pico
	if err := b.Validate(w); err != nil {
		return Env{}, err
	}
	i2c := &hostI2CFactory{buses: map[string]drivers.I2C{}}
	if x := w.Expander; x != nil {
		bus := NewHostI2C()
		bus.Attach(uint16(x.Addr))
		i2c.buses[x.Bus] = bus
	}
	env := Env{
		Board: b,
		Pins:  &HostPinFactory{pins: make(map[int]*FakePin)},
		I2C:   i2c,
		UARTs: &hostUARTFactory{id: w.UART.ID, port: NewStreamUART(r, wr)},
	}
	env.attachExpander(w)
	return env, nil
}

// ----------------------------- I²C (host) ------------------------------------

var errNoAck = errors.New("i2c: no ack")

// HostI2C implements tinygo drivers.I2C as a register file per attached
// address. A write sets the register pointer from its first byte and stores
// the rest with auto-increment; a read returns from the pointer onwards.
type HostI2C struct {
	mu   sync.Mutex
	regs map[uint16]*[256]byte
	Fail error // when set, every Tx fails with it
	Txs  int
}

func NewHostI2C() *HostI2C { return &HostI2C{regs: map[uint16]*[256]byte{}} }

// Attach makes addr acknowledge.
func (h *HostI2C) Attach(addr uint16) {
	h.mu.Lock()
	if _, ok := h.regs[addr]; !ok {
		h.regs[addr] = new([256]byte)
	}
	h.mu.Unlock()
}

// Reg returns the current value of one register.
func (h *HostI2C) Reg(addr uint16, reg uint8) byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if f, ok := h.regs[addr]; ok {
		return f[reg]
	}
	return 0
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Txs++
	if h.Fail != nil {
		return h.Fail
	}
	f, ok := h.regs[addr]
	if !ok {
		return errNoAck
	}
	if len(w) == 0 {
		return nil
	}
	ptr := w[0]
	for _, b := range w[1:] {
		f[ptr] = b
		ptr++
	}
	for i := range r {
		r[i] = f[ptr]
		ptr++
	}
	return nil
}

type hostI2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *hostI2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

// ----------------------------- UART (host) -----------------------------------

// rxFIFO is the host receive FIFO depth.
const rxFIFO = 512

// StreamUART implements halcore.UARTPort over an io.Reader/io.Writer pair.
// Received bytes queue in a fixed FIFO; bytes that do not fit are dropped and
// counted, as a hardware overrun would.
type StreamUART struct {
	pmu      sync.Mutex // serializes producers: pump and Inject
	rx       *ring.Ring
	overruns atomic.Uint32

	emu  sync.Mutex
	err  error // sticky reader error, reported once rx drains
	errc chan struct{}

	wmu sync.Mutex
	w   io.Writer
}

var (
	_ halcore.UARTPort = (*StreamUART)(nil)
	_ halcore.Failer   = (*StreamUART)(nil)
)

func NewStreamUART(r io.Reader, w io.Writer) *StreamUART {
	u := &StreamUART{rx: ring.New(rxFIFO), errc: make(chan struct{}), w: w}
	if r != nil {
		go u.pump(r)
	}
	return u
}

func (u *StreamUART) pump(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			u.Inject(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				u.emu.Lock()
				u.err = err
				u.emu.Unlock()
				close(u.errc)
			}
			return
		}
	}
}

// Inject queues bytes as if they had arrived on the line.
func (u *StreamUART) Inject(b []byte) {
	u.pmu.Lock()
	n := u.rx.Put(b)
	u.pmu.Unlock()
	if n < len(b) {
		u.overruns.Add(uint32(len(b) - n))
	}
}

// Overruns counts bytes dropped because the FIFO was full.
func (u *StreamUART) Overruns() uint32 { return u.overruns.Load() }

func (u *StreamUART) Write(p []byte) (int, error) {
	if u.w == nil {
		return len(p), nil
	}
	u.wmu.Lock()
	defer u.wmu.Unlock()
	return u.w.Write(p)
}

func (u *StreamUART) Buffered() int { return u.rx.Len() }

// Err returns the reader's failure once every byte read before it has been
// consumed. A clean EOF is not a failure.
func (u *StreamUART) Err() error {
	if u.rx.Len() > 0 {
		return nil
	}
	u.emu.Lock()
	defer u.emu.Unlock()
	return u.err
}

func (u *StreamUART) Readable() <-chan struct{} { return u.rx.Readable() }

func (u *StreamUART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		if n := u.rx.Get(p); n > 0 {
			return n, nil
		}
		u.emu.Lock()
		err := u.err
		u.emu.Unlock()
		if err != nil {
			return 0, err
		}
		select {
		case <-u.rx.Readable():
		case <-u.errc:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

type hostUARTFactory struct {
	id   string
	port *StreamUART
}

func (f *hostUARTFactory) ByID(id string) (halcore.UARTPort, bool) {
	if id != f.id {
		return nil, false
	}
	return f.port, true
}

// Stream exposes the host serial port for tests and the desktop demo.
func (e *Env) Stream() (*StreamUART, bool) {
	f, ok := e.UARTs.(*hostUARTFactory)
	if !ok {
		return nil, false
	}
	return f.port, true
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin and IRQPin for host-side tests.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    halcore.Pull
	irqEdge halcore.Edge
	irqFunc func()
	toggles int
}

func (p *FakePin) ConfigureInput(pull halcore.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	// A pulled input idles at its pull level.
	switch pull {
	case halcore.PullUp:
		p.level = true
	case halcore.PullDown:
		p.level = false
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

// Set drives the line and runs the IRQ handler when the change matches the
// configured edge, as the hardware would.
func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	old := p.level
	p.level = level
	irq := p.irqFunc
	want := irqWanted(p.irqEdge, edgeFrom(old, level))
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

// Toggle is a single locked read-modify-write.
func (p *FakePin) Toggle() {
	p.mu.Lock()
	p.level = !p.level
	p.toggles++
	p.mu.Unlock()
}

func (p *FakePin) Number() int { return p.number }

// IsOutput reports the configured direction.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// Toggles counts Toggle calls.
func (p *FakePin) Toggles() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.toggles
}

// IRQ reports the armed edge.
func (p *FakePin) IRQ() halcore.Edge {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.irqEdge
}

func (p *FakePin) SetIRQ(edge halcore.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = halcore.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func edgeFrom(old, new bool) halcore.Edge {
	switch {
	case !old && new:
		return halcore.EdgeRising
	case old && !new:
		return halcore.EdgeFalling
	default:
		return halcore.EdgeNone
	}
}

func irqWanted(cfg, seen halcore.Edge) bool {
	switch cfg {
	case halcore.EdgeBoth:
		return seen == halcore.EdgeRising || seen == halcore.EdgeFalling
	case halcore.EdgeNone:
		return false
	default:
		return cfg == seen
	}
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p, true
}

// Fake exposes the underlying *FakePin for tests (e.g. to drive IRQ edges).
func (e *Env) Fake(n int) (*FakePin, bool) {
	f, ok := e.Pins.(*HostPinFactory)
	if !ok {
		return nil, false
	}
	p, _ := f.ByNumber(n)
	fp, ok := p.(*FakePin)
	return fp, ok
}
