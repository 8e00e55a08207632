package types

import "time"

// Serial command bytes. One byte per command; no framing, ack or echo.
const (
	CmdToggleA byte = '1'
	CmdToggleB byte = '2'
)

// Greeting is transmitted once at startup.
const Greeting = "Press 1-2 on your keyboard in a Serial Emulator to toggle LEDS.\n\r"

const (
	// RxBufSize is the capacity of the receive buffer lent to the driver.
	RxBufSize = 10
	// RxInactivity is the idle time after which received bytes are reported.
	RxInactivity = 100 * time.Microsecond
)
