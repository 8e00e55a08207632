package types

// Board wiring chosen by a setup. Pins are plain GPIO numbers; mapping to
// machine.Pin (or a host fake) happens in the platform provider.

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

func (p Pull) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

// LEDWiring describes one output line. When Expander is set, Pin is a channel
// (0..15) on the MCP23017 instead of an MCU GPIO.
type LEDWiring struct {
	Pin       int  `json:"pin"`
	ActiveLow bool `json:"active_low,omitempty"`
	Expander  bool `json:"expander,omitempty"`
}

type ButtonWiring struct {
	Pin       int  `json:"pin"`
	ActiveLow bool `json:"active_low,omitempty"` // pressed == low
	Pull      Pull `json:"pull,omitempty"`
}

type UARTWiring struct {
	ID   string `json:"id"` // "uart0" | "uart1"
	TX   int    `json:"tx"`
	RX   int    `json:"rx"`
	Baud uint32 `json:"baud,omitempty"`
}

// ExpanderWiring places an MCP23017 on an I²C bus.
type ExpanderWiring struct {
	Bus  string `json:"bus"` // "i2c0" | "i2c1"
	SDA  int    `json:"sda"`
	SCL  int    `json:"scl"`
	Hz   uint32 `json:"hz,omitempty"`
	Addr uint8  `json:"addr"`
}

type Wiring struct {
	Name     string          `json:"name"`
	LEDA     LEDWiring       `json:"led_a"`
	LEDB     LEDWiring       `json:"led_b"`
	Button   ButtonWiring    `json:"button"`
	UART     UARTWiring      `json:"uart"`
	Expander *ExpanderWiring `json:"expander,omitempty"`
}

const DefaultBaud = 115200

// PicoWiring is the default Pico / Pico 2 breadboard layout.
var PicoWiring = Wiring{
	Name:   "pico",
	LEDA:   LEDWiring{Pin: 14},
	LEDB:   LEDWiring{Pin: 15},
	Button: ButtonWiring{Pin: 16, ActiveLow: true, Pull: PullUp},
	UART:   UARTWiring{ID: "uart0", TX: 0, RX: 1, Baud: DefaultBaud},
}
