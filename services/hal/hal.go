// services/hal/hal.go

// Package hal exposes the board the firmware runs on: two LED outputs, one
// button input with interrupt, and one asynchronous serial channel. Every
// button and serial handler runs on a single dispatch goroutine.
package hal

import (
	"context"

	"ledtoggle-go/services/hal/internal/dispatch"
	"ledtoggle-go/services/hal/internal/platform"
	"ledtoggle-go/services/hal/internal/uartasync"
	"ledtoggle-go/types"
)

const (
	isrQueue    = 16
	serialQueue = 32
)

// Board bundles the peripherals named by a types.Wiring.
type Board struct {
	Name   string
	LEDA   *Output
	LEDB   *Output
	Button *Input
	Serial *Serial

	env  platform.Env
	loop *dispatch.Loop
}

// Selected returns the wiring chosen at build time.
func Selected() types.Wiring { return platform.SelectedWiring() }

// Open brings up the platform controllers for w. It fails only on wiring the
// board cannot provide; a peripheral that did not come up is reported by its
// Ready method so the caller can check in its own order.
func Open(w types.Wiring) (*Board, error) {
	env, err := platform.Default(w)
	if err != nil {
		return nil, err
	}
	return build(w, env), nil
}

func build(w types.Wiring, env platform.Env) *Board {
	b := &Board{
		Name: w.Name,
		env:  env,
		loop: dispatch.New(isrQueue, serialQueue),
	}

	b.LEDA = newOutput("led_a", w.LEDA, env)
	b.LEDB = newOutput("led_b", w.LEDB, env)
	b.Button = newInput("button", w.Button, env, b.loop)

	port, err := env.UART(w.UART)
	if err != nil {
		b.Serial = &Serial{err: err}
	} else {
		b.Serial = &Serial{drv: uartasync.New(port), loop: b.loop}
	}
	return b
}

// Start runs the handler goroutine until ctx ends.
func (b *Board) Start(ctx context.Context) { b.loop.Start(ctx) }

// Close stops the serial driver and disarms the button.
func (b *Board) Close() error {
	b.Button.disarm()
	return b.Serial.Close()
}

// ISRDrops counts button edges lost because the handler queue was full.
func (b *Board) ISRDrops() uint32 { return b.loop.ISRDrops() }

// ExpanderErrors counts failed I²C transactions on the LED expander, if any.
func (b *Board) ExpanderErrors() uint32 {
	if b.env.Expander == nil {
		return 0
	}
	return b.env.Expander.Errors()
}
