// services/hal/internal/uartasync/driver.go

// Package uartasync turns a byte-stream UART port into an asynchronous,
// event-driven channel: transmissions complete with TxDone, reception fills a
// caller-lent buffer and reports through RxReady, and a full buffer with no
// follow-up ends in RxBufReleased + RxDisabled. Closing the driver ends
// reception with RxStopped (reason errcode.Closed) and no RxDisabled, since
// nothing can re-enable a closed driver.
package uartasync

import (
	"context"
	"errors"
	"sync"
	"time"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/halcore"
)

// Forever disables a timeout.
const Forever time.Duration = -1

// txChunk bounds a single port write so a Tx timeout is observed between chunks.
const txChunk = 16

type Driver struct {
	port halcore.UARTPort

	ctx    context.Context // driver lifetime
	cancel context.CancelFunc

	mu     sync.Mutex
	cb     Callback
	closed bool

	txBusy bool

	rxOn     bool
	rxCancel context.CancelFunc
	rxNext   []byte // follow-up buffer from RxBufRsp
	rxWant   bool   // an RxBufRequest is outstanding
}

func New(port halcore.UARTPort) *Driver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Driver{port: port, ctx: ctx, cancel: cancel}
}

// Ready reports whether the port is usable.
func (d *Driver) Ready() bool {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	return !closed && d.port != nil && halcore.IsReady(d.port)
}

// SetCallback installs the event callback, replacing any previous one.
func (d *Driver) SetCallback(cb Callback) error {
	if cb == nil {
		return errcode.InvalidParams
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errcode.Closed
	}
	d.cb = cb
	return nil
}

func (d *Driver) emit(ev Event) {
	d.mu.Lock()
	cb := d.cb
	d.mu.Unlock()
	if cb != nil {
		cb(ev)
	}
}

// ---------------- TX ----------------

// Tx starts transmitting buf. It returns immediately; completion is reported
// with TxDone (or TxAborted once timeout elapses). buf must stay untouched
// until then. Only one transmission may be in flight.
func (d *Driver) Tx(buf []byte, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closed:
		return errcode.Closed
	case d.txBusy:
		return errcode.Busy
	case len(buf) == 0:
		return errcode.InvalidParams
	}
	d.txBusy = true
	go d.txLoop(buf, timeout)
	return nil
}

func (d *Driver) txLoop(buf []byte, timeout time.Duration) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	sent := 0
	aborted := false
	for sent < len(buf) {
		if d.ctx.Err() != nil || (!deadline.IsZero() && !time.Now().Before(deadline)) {
			aborted = true
			break
		}
		end := sent + txChunk
		if end > len(buf) {
			end = len(buf)
		}
		n, err := d.port.Write(buf[sent:end])
		sent += n
		if err != nil {
			aborted = true
			break
		}
	}

	d.mu.Lock()
	d.txBusy = false
	d.mu.Unlock()

	typ := TxDone
	if aborted {
		typ = TxAborted
	}
	d.emit(Event{Type: typ, TxBuf: buf, TxLen: sent})
}

// ---------------- RX ----------------

// RxEnable lends buf to the driver and starts reception. timeout is the line
// idle time after which buffered bytes are announced with RxReady: 0 announces
// after every read, Forever only when the buffer fills. A port that has
// failed for good is refused with errcode.RxFailed.
func (d *Driver) RxEnable(buf []byte, timeout time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.closed:
		return errcode.Closed
	case d.rxOn:
		return errcode.Busy
	case len(buf) == 0:
		return errcode.InvalidParams
	}
	if err := halcore.PortErr(d.port); err != nil {
		return errcode.Wrap(errcode.RxFailed, "port", err)
	}
	rctx, cancel := context.WithCancel(d.ctx)
	d.rxOn = true
	d.rxCancel = cancel
	d.rxNext = nil
	d.rxWant = true
	go d.rxLoop(rctx, buf, timeout)
	return nil
}

// RxBufRsp answers an RxBufRequest with the next buffer to fill.
func (d *Driver) RxBufRsp(buf []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case !d.rxOn:
		return errcode.NotEnabled
	case !d.rxWant:
		return errcode.Busy
	case len(buf) == 0:
		return errcode.InvalidParams
	}
	d.rxNext = buf
	d.rxWant = false
	return nil
}

// RxDisable stops reception. Pending bytes are announced, then the buffer is
// released and RxDisabled follows, all from the driver goroutine.
func (d *Driver) RxDisable() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.rxOn || d.rxCancel == nil {
		return errcode.NotEnabled
	}
	d.rxCancel()
	d.rxCancel = nil
	return nil
}

// RxEnabled reports whether a receive buffer is currently lent to the driver.
func (d *Driver) RxEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rxOn
}

func (d *Driver) rxLoop(ctx context.Context, buf []byte, idle time.Duration) {
	d.emit(Event{Type: RxBufRequest})

	pos, reported := 0, 0
	flush := func() {
		if pos > reported {
			d.emit(Event{Type: RxReady, Buf: buf, Offset: reported, Len: pos - reported})
			reported = pos
		}
	}

	for {
		pending := pos > reported
		if pending && idle == 0 {
			flush()
			continue
		}
		wait, cancel := ctx, context.CancelFunc(nil)
		if pending && idle > 0 {
			wait, cancel = context.WithTimeout(ctx, idle)
		}
		n, err := d.port.RecvSomeContext(wait, buf[pos:])
		if cancel != nil {
			cancel()
		}
		if n > 0 {
			pos += n
		}

		switch {
		case ctx.Err() != nil:
			flush()
			if d.ctx.Err() != nil {
				d.emit(Event{Type: RxStopped, Reason: errcode.Closed})
			}
			d.rxFinish(buf)
			return

		case pos == len(buf):
			flush()
			d.emit(Event{Type: RxBufReleased, Buf: buf})
			next := d.takeNext()
			if next == nil {
				d.rxFinish(nil)
				return
			}
			buf, pos, reported = next, 0, 0
			d.emit(Event{Type: RxBufRequest})

		case err != nil && errors.Is(err, context.DeadlineExceeded):
			flush()

		case err != nil:
			flush()
			d.emit(Event{Type: RxStopped, Reason: err})
			d.rxFinish(buf)
			return
		}
	}
}

// takeNext swaps in the follow-up buffer and re-opens the request window.
func (d *Driver) takeNext() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.rxNext
	d.rxNext = nil
	d.rxWant = next != nil
	return next
}

// rxFinish releases buffers still held and marks reception off. Unless the
// driver is closed it then emits RxDisabled, last, so the callback may
// re-enable straight away.
func (d *Driver) rxFinish(held []byte) {
	d.mu.Lock()
	next := d.rxNext
	d.rxNext = nil
	d.rxWant = false
	d.mu.Unlock()

	if held != nil {
		d.emit(Event{Type: RxBufReleased, Buf: held})
	}
	if next != nil {
		d.emit(Event{Type: RxBufReleased, Buf: next})
	}

	d.mu.Lock()
	d.rxOn = false
	if d.rxCancel != nil {
		d.rxCancel()
		d.rxCancel = nil
	}
	closed := d.closed
	d.mu.Unlock()

	if closed {
		return
	}
	d.emit(Event{Type: RxDisabled})
}

// Close stops driver goroutines. Active reception ends with RxStopped and
// RxBufReleased. Further calls fail with errcode.Closed.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()
	d.cancel()
	return nil
}
