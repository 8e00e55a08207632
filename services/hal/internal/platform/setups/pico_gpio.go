//go:build !expander_leds

package setups

import "ledtoggle-go/types"

// Selected drives both LEDs straight from MCU GPIOs.
var Selected = types.PicoWiring
