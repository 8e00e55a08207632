package hal

import (
	"time"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/dispatch"
	"ledtoggle-go/services/hal/internal/uartasync"
)

// Serial events, re-exported from the driver.
type (
	Event     = uartasync.Event
	EventType = uartasync.EventType
)

const (
	TxDone        = uartasync.TxDone
	TxAborted     = uartasync.TxAborted
	RxReady       = uartasync.RxReady
	RxBufRequest  = uartasync.RxBufRequest
	RxBufReleased = uartasync.RxBufReleased
	RxDisabled    = uartasync.RxDisabled
	RxStopped     = uartasync.RxStopped
)

// Forever disables a Tx or Rx timeout.
const Forever = uartasync.Forever

// Serial is the asynchronous serial channel. Its callback runs on the
// dispatch goroutine, serialized with the button handler.
type Serial struct {
	drv  *uartasync.Driver
	loop *dispatch.Loop
	err  error
}

func (s *Serial) Ready() bool {
	return s != nil && s.err == nil && s.drv != nil && s.drv.Ready()
}

// SetCallback installs cb for all driver events.
func (s *Serial) SetCallback(cb func(Event)) error {
	if cb == nil {
		return errcode.InvalidParams
	}
	if s.drv == nil {
		return errcode.NotReady
	}
	return s.drv.SetCallback(s.loop.Serial(cb))
}

// Tx starts a transmission; completion arrives as TxDone or TxAborted.
func (s *Serial) Tx(buf []byte, timeout time.Duration) error {
	if s.drv == nil {
		return errcode.NotReady
	}
	return s.drv.Tx(buf, timeout)
}

// RxEnable lends buf to the driver. RxReady reports new bytes once the line
// has been idle for timeout; RxDisabled means buf is back with the caller.
func (s *Serial) RxEnable(buf []byte, timeout time.Duration) error {
	if s.drv == nil {
		return errcode.NotReady
	}
	return s.drv.RxEnable(buf, timeout)
}

func (s *Serial) RxBufRsp(buf []byte) error {
	if s.drv == nil {
		return errcode.NotReady
	}
	return s.drv.RxBufRsp(buf)
}

func (s *Serial) RxDisable() error {
	if s.drv == nil {
		return errcode.NotReady
	}
	return s.drv.RxDisable()
}

func (s *Serial) RxEnabled() bool { return s.drv != nil && s.drv.RxEnabled() }

func (s *Serial) Close() error {
	if s == nil || s.drv == nil {
		return nil
	}
	return s.drv.Close()
}
