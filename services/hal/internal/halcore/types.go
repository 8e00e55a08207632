// services/hal/internal/halcore/types.go
package halcore

import (
	"context"

	"tinygo.org/x/drivers"
)

// ---- Readiness ----

// Readier is implemented by anything backed by a peripheral that may fail to
// come up (GPIO port, UART, I²C expander).
type Readier interface {
	Ready() bool
}

// IsReady treats values without a Readier as ready.
func IsReady(v any) bool {
	if r, ok := v.(Readier); ok {
		return r.Ready()
	}
	return v != nil
}

// Failer is implemented by ports whose receive side can fail for good, such
// as a host stream whose reader has closed.
type Failer interface {
	Err() error
}

// PortErr returns the lasting failure of v, or nil when v has none or cannot
// report one.
func PortErr(v any) error {
	if f, ok := v.(Failer); ok {
		return f.Err()
	}
	return nil
}

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is one line. Toggle must be atomic with respect to interrupt
// handlers: a handler that preempts a toggle must not observe or produce a
// torn read-modify-write.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Toggle()
	Number() int
}

// Edge selection for IRQ.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// EdgeToActive is the edge on which a line enters its active level.
func EdgeToActive(activeLow bool) Edge {
	if activeLow {
		return EdgeFalling
	}
	return EdgeRising
}

// IRQPin extends GPIOPin with interrupts. The handler runs in interrupt
// context on MCU builds: it must not block or allocate.
type IRQPin interface {
	GPIOPin
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}

// PinFactory supplies GPIO pins by the configured number scheme.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

func EdgeToString(e Edge) string {
	switch e {
	case EdgeRising:
		return "rising"
	case EdgeFalling:
		return "falling"
	case EdgeBoth:
		return "both"
	default:
		return "none"
	}
}

// ---------------- I²C abstractions ----------------

// I2CBusFactory supplies configured buses by id ("i2c0", "i2c1").
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}

// ---------------- UART abstractions ----------------

// UARTPort is a byte stream with a coalesced RX readiness signal.
type UARTPort interface {
	// TX; blocks until the bytes are accepted by the driver.
	Write(p []byte) (int, error)

	// RX
	Buffered() int
	Readable() <-chan struct{}
	// RecvSomeContext blocks until at least one byte is available or ctx ends.
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

type UARTFactory interface {
	ByID(id string) (UARTPort, bool)
}
