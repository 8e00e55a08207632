package platform

import (
	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/platform/boards"
	"ledtoggle-go/types"
)

// Env is what a board offers once wiring has been applied.
type Env struct {
	Board    boards.Board
	Pins     halcore.PinFactory
	I2C      halcore.I2CBusFactory
	UARTs    halcore.UARTFactory
	Expander *Expander // nil unless the wiring places LEDs on an MCP23017
}

// attachExpander probes the expander named by w, if any. A missing or silent
// chip is not an error here; LEDs on it report not ready during setup.
func (e *Env) attachExpander(w types.Wiring) {
	x := w.Expander
	if x == nil || e.I2C == nil {
		return
	}
	bus, ok := e.I2C.ByID(x.Bus)
	if !ok {
		return
	}
	if ex, err := NewExpander(bus, x.Addr); err == nil {
		e.Expander = ex
	}
}

// Output resolves an LED line to a pin, on the MCU or on the expander.
func (e *Env) Output(w types.LEDWiring) (halcore.GPIOPin, error) {
	if w.Expander {
		if e.Expander == nil {
			return nil, errcode.NotReady
		}
		p, ok := e.Expander.Pin(w.Pin)
		if !ok {
			return nil, errcode.UnknownPin
		}
		return p, nil
	}
	return e.pin(w.Pin)
}

// Input resolves the button line. It must support interrupts.
func (e *Env) Input(w types.ButtonWiring) (halcore.IRQPin, error) {
	p, err := e.pin(w.Pin)
	if err != nil {
		return nil, err
	}
	irq, ok := p.(halcore.IRQPin)
	if !ok {
		return nil, errcode.Unsupported
	}
	return irq, nil
}

func (e *Env) pin(n int) (halcore.GPIOPin, error) {
	if e.Pins == nil || !e.Board.HasGPIO(n) {
		return nil, errcode.UnknownPin
	}
	p, ok := e.Pins.ByNumber(n)
	if !ok {
		return nil, errcode.UnknownPin
	}
	return p, nil
}

// UART resolves the serial port by id.
func (e *Env) UART(w types.UARTWiring) (halcore.UARTPort, error) {
	if e.UARTs == nil {
		return nil, errcode.UnknownBus
	}
	p, ok := e.UARTs.ByID(w.ID)
	if !ok {
		return nil, errcode.UnknownBus
	}
	return p, nil
}

// ToPull maps wiring pull selection onto the HAL enum.
func ToPull(p types.Pull) halcore.Pull {
	switch p {
	case types.PullUp:
		return halcore.PullUp
	case types.PullDown:
		return halcore.PullDown
	default:
		return halcore.PullNone
	}
}
