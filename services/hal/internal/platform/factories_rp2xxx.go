// services/hal/internal/platform/factories_rp2xx.go
//go:build rp2040 || rp2350

package platform

import (
	"context"
	"machine"
	"runtime/interrupt"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers"

	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/platform/boards"
	"ledtoggle-go/types"
)

// Default configures the controllers named by w on a Raspberry Pi Pico /
// Pico 2 and returns the resulting environment. Pins themselves are
// configured later, by the HAL, in setup order.
func Default(w types.Wiring) (Env, error) {
	b := boards.Pico
	if err := b.Validate(w); err != nil {
		return Env{}, err
	}
	env := Env{
		Board: b,
		Pins:  rp2PinFactory{},
		I2C:   configureI2C(w.Expander),
		UARTs: configureUART(w.UART),
	}
	env.attachExpander(w)
	return env, nil
}

// ---- I²C implementation ----

type rp2I2CFactory struct {
	buses map[string]drivers.I2C
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	b, ok := f.buses[id]
	return b, ok
}

func configureI2C(x *types.ExpanderWiring) halcore.I2CBusFactory {
	f := &rp2I2CFactory{buses: make(map[string]drivers.I2C)}
	if x == nil {
		return f
	}
	var hw *machine.I2C
	switch x.Bus {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return f
	}
	hz := x.Hz
	if hz == 0 {
		hz = 400 * machine.KHz
	}
	sda, scl := machine.Pin(x.SDA), machine.Pin(x.SCL)
	if err := hw.Configure(machine.I2CConfig{Frequency: hz, SDA: sda, SCL: scl}); err != nil {
		return f
	}
	f.buses[x.Bus] = hw
	return f
}

// ---- UART implementation ----

type rp2UARTFactory struct {
	ports map[string]halcore.UARTPort
}

func (f *rp2UARTFactory) ByID(id string) (halcore.UARTPort, bool) {
	p, ok := f.ports[id]
	return p, ok
}

func configureUART(u types.UARTWiring) halcore.UARTFactory {
	f := &rp2UARTFactory{ports: make(map[string]halcore.UARTPort)}
	var hw *uartx.UART
	switch u.ID {
	case "uart0":
		hw = uartx.UART0
	case "uart1":
		hw = uartx.UART1
	default:
		return f
	}
	baud := u.Baud
	if baud == 0 {
		baud = types.DefaultBaud
	}
	err := hw.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       machine.Pin(u.TX),
		RX:       machine.Pin(u.RX),
	})
	f.ports[u.ID] = &rp2SerialPort{u: hw, ok: err == nil}
	return f
}

// rp2SerialPort adapts uartx to halcore.UARTPort.
type rp2SerialPort struct {
	u  *uartx.UART
	ok bool
}

var (
	_ halcore.UARTPort = (*rp2SerialPort)(nil)
	_ drivers.UART     = (*rp2SerialPort)(nil)
)

func (p *rp2SerialPort) Ready() bool                 { return p.ok }
func (p *rp2SerialPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *rp2SerialPort) Read(b []byte) (int, error)  { return p.u.Read(b) }
func (p *rp2SerialPort) Buffered() int               { return p.u.Buffered() }
func (p *rp2SerialPort) Readable() <-chan struct{}   { return p.u.Readable() }
func (p *rp2SerialPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

// ---- GPIO implementation (includes IRQ support) ----

// rp2PinFactory maps logical numbers directly to machine.Pin(n). This matches
// Pico/Pico 2 GP numbering.
type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (halcore.GPIOPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull halcore.Pull) error {
	var mode machine.PinMode
	switch pull {
	case halcore.PullUp:
		mode = machine.PinInputPullup
	case halcore.PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }

// Toggle runs with interrupts masked so a button ISR cannot split the
// read-modify-write.
func (r *rp2Pin) Toggle() {
	mask := interrupt.Disable()
	r.p.Set(!r.p.Get())
	interrupt.Restore(mask)
}

func (r *rp2Pin) Number() int { return r.n }

func (r *rp2Pin) SetIRQ(edge halcore.Edge, handler func()) error {
	return r.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (r *rp2Pin) ClearIRQ() error {
	var zero machine.PinChange
	return r.p.SetInterrupt(zero, nil)
}

func toPinChange(e halcore.Edge) machine.PinChange {
	switch e {
	case halcore.EdgeRising:
		return machine.PinRising
	case halcore.EdgeFalling:
		return machine.PinFalling
	case halcore.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}
