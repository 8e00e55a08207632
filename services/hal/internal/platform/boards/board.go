package boards

import (
	"ledtoggle-go/errcode"
	"ledtoggle-go/types"
)

// Board describes what the PCB/SoC can do (controllers present, GPIO range).
// It must not include wiring choices (pins) or operating parameters (clock rates).
type Board struct {
	Name             string
	GPIOMin, GPIOMax int

	// Controllers present (identities only; e.g. "i2c0", "uart0").
	I2C  []string
	UART []string
}

func (b Board) HasGPIO(n int) bool { return n >= b.GPIOMin && n <= b.GPIOMax }

func (b Board) HasI2C(id string) bool  { return contains(b.I2C, id) }
func (b Board) HasUART(id string) bool { return contains(b.UART, id) }

// Validate checks that w only names pins and controllers the board has.
func (b Board) Validate(w types.Wiring) error {
	for _, led := range []types.LEDWiring{w.LEDA, w.LEDB} {
		if led.Expander {
			if w.Expander == nil {
				return &errcode.E{C: errcode.InvalidParams, Op: "wiring", Msg: "expander led without expander"}
			}
			continue
		}
		if !b.HasGPIO(led.Pin) {
			return &errcode.E{C: errcode.UnknownPin, Op: "wiring", Msg: "led"}
		}
	}
	if !b.HasGPIO(w.Button.Pin) {
		return &errcode.E{C: errcode.UnknownPin, Op: "wiring", Msg: "button"}
	}
	if !b.HasUART(w.UART.ID) {
		return &errcode.E{C: errcode.UnknownBus, Op: "wiring", Msg: w.UART.ID}
	}
	if !b.HasGPIO(w.UART.TX) || !b.HasGPIO(w.UART.RX) {
		return &errcode.E{C: errcode.UnknownPin, Op: "wiring", Msg: "uart"}
	}
	if x := w.Expander; x != nil {
		if !b.HasI2C(x.Bus) {
			return &errcode.E{C: errcode.UnknownBus, Op: "wiring", Msg: x.Bus}
		}
		if !b.HasGPIO(x.SDA) || !b.HasGPIO(x.SCL) {
			return &errcode.E{C: errcode.UnknownPin, Op: "wiring", Msg: "i2c"}
		}
	}
	return nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
