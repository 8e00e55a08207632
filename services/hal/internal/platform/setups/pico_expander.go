//go:build expander_leds

package setups

import "ledtoggle-go/types"

// Selected puts both LEDs on an MCP23017 (A0..A2 low) on i2c0, GPA0/GPA1.
// The button and serial link stay on the MCU.
var Selected = types.Wiring{
	Name:   "pico_expander",
	LEDA:   types.LEDWiring{Pin: 0, Expander: true},
	LEDB:   types.LEDWiring{Pin: 1, Expander: true},
	Button: types.PicoWiring.Button,
	UART:   types.PicoWiring.UART,
	Expander: &types.ExpanderWiring{
		Bus:  "i2c0",
		SDA:  4,
		SCL:  5,
		Hz:   400_000,
		Addr: 0x20,
	},
}
