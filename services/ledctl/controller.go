// Package ledctl toggles two LEDs from a button interrupt and from
// single-byte serial commands, and keeps the serial receive buffer armed.
package ledctl

import (
	"errors"
	"sync/atomic"
	"time"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal"
	"ledtoggle-go/types"
	"ledtoggle-go/x/logx"
)

// Module is the log module name.
const Module = "button_click_led"

type Output interface {
	Ready() bool
	Configure(on bool) error
	Toggle()
}

type Input interface {
	Ready() bool
	Configure() error
	OnActive(h func()) error
}

type Serial interface {
	Ready() bool
	SetCallback(cb func(hal.Event)) error
	Tx(buf []byte, timeout time.Duration) error
	RxEnable(buf []byte, timeout time.Duration) error
}

type rxState uint8

const (
	rxIdle  rxState = iota // software holds the buffer
	rxArmed                // lent to the driver
)

// rxBuffer is lent to the driver for the program's lifetime. Every return to
// idle is followed at once by a re-arm.
type rxBuffer struct {
	buf   [types.RxBufSize]byte
	state rxState
}

type counters struct {
	buttonPresses uint32
	commandsA     uint32
	commandsB     uint32
	ignored       uint32
	burstsIgnored uint32
	rearms        uint32
	rearmFailures uint32
}

// Controller owns the LED lines, the button and the serial channel. Its two
// handlers must never run concurrently; hal.Board guarantees this by running
// both on its dispatch goroutine.
type Controller struct {
	ledA, ledB Output
	button     Input
	serial     Serial
	log        *logx.Logger

	rx       rxBuffer
	greeting []byte
	n        counters

	// Yield is called by Idle between context checks.
	Yield func()
}

// New wires a controller to a board.
func New(b *hal.Board, log *logx.Logger) *Controller {
	return NewWith(b.LEDA, b.LEDB, b.Button, b.Serial, log)
}

func NewWith(ledA, ledB Output, button Input, serial Serial, log *logx.Logger) *Controller {
	if log == nil {
		log = logx.New(Module, logx.LevelOff)
	}
	return &Controller{
		ledA:     ledA,
		ledB:     ledB,
		button:   button,
		serial:   serial,
		log:      log,
		greeting: []byte(types.Greeting),
	}
}

// HandleButton runs once per edge-to-active on the button: both LEDs invert.
func (c *Controller) HandleButton() {
	atomic.AddUint32(&c.n.buttonPresses, 1)
	c.log.Warn("button pressed")
	c.ledA.Toggle()
	c.ledB.Toggle()
	c.log.Debug("toggled", logx.Str("leds", "a,b"))
}

// HandleSerial reacts to driver events. Only single-byte RxReady and
// RxDisabled have an effect.
func (c *Controller) HandleSerial(ev hal.Event) {
	switch ev.Type {
	case hal.RxReady:
		c.command(ev.Data())
	case hal.RxDisabled:
		c.rx.state = rxIdle
		c.rearm()
	case hal.TxDone, hal.TxAborted, hal.RxBufRequest, hal.RxBufReleased, hal.RxStopped:
		// no effect
	}
}

func (c *Controller) command(data []byte) {
	if len(data) != 1 {
		atomic.AddUint32(&c.n.burstsIgnored, 1)
		c.log.Debug("burst ignored", logx.Int("len", len(data)))
		return
	}
	switch b := data[0]; b {
	case types.CmdToggleA:
		atomic.AddUint32(&c.n.commandsA, 1)
		c.ledA.Toggle()
	case types.CmdToggleB:
		atomic.AddUint32(&c.n.commandsB, 1)
		c.ledB.Toggle()
	default:
		atomic.AddUint32(&c.n.ignored, 1)
		c.log.Debug("ignored", logx.Byte("byte", b))
	}
}

// rearm lends the buffer back to the driver. A failure stops reception for
// good; it is logged and counted, never retried. A closed channel is a
// shutdown, not a failure.
func (c *Controller) rearm() {
	c.rx.state = rxArmed
	if err := c.serial.RxEnable(c.rx.buf[:], types.RxInactivity); err != nil {
		c.rx.state = rxIdle
		if errors.Is(err, errcode.Closed) {
			c.log.Debug("rx closed")
			return
		}
		atomic.AddUint32(&c.n.rearmFailures, 1)
		c.log.Error("rx re-arm failed", logx.Err(err))
		return
	}
	atomic.AddUint32(&c.n.rearms, 1)
}

// Armed reports whether the receive buffer is lent to the driver. Call it
// from the handler goroutine or after handlers have quiesced.
func (c *Controller) Armed() bool { return c.rx.state == rxArmed }

// Stats returns a snapshot of the event counters.
func (c *Controller) Stats() types.Stats {
	return types.Stats{
		ButtonPresses: atomic.LoadUint32(&c.n.buttonPresses),
		CommandsA:     atomic.LoadUint32(&c.n.commandsA),
		CommandsB:     atomic.LoadUint32(&c.n.commandsB),
		Ignored:       atomic.LoadUint32(&c.n.ignored),
		BurstsIgnored: atomic.LoadUint32(&c.n.burstsIgnored),
		Rearms:        atomic.LoadUint32(&c.n.rearms),
		RearmFailures: atomic.LoadUint32(&c.n.rearmFailures),
	}
}
