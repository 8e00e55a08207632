package uartasync

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledtoggle-go/errcode"
)

// --- minimal fake port implementing halcore.UARTPort ---

type fakePort struct {
	mu         sync.Mutex
	rx         []byte
	rd         chan struct{}
	tx         bytes.Buffer
	writeDelay time.Duration
	recvErr    error
}

func newFakePort() *fakePort { return &fakePort{rd: make(chan struct{}, 1)} }

func (f *fakePort) inject(b []byte) {
	f.mu.Lock()
	f.rx = append(f.rx, b...)
	f.mu.Unlock()
	select {
	case f.rd <- struct{}{}:
	default:
	}
}

func (f *fakePort) fail(err error) {
	f.mu.Lock()
	f.recvErr = err
	f.mu.Unlock()
	select {
	case f.rd <- struct{}{}:
	default:
	}
}

func (f *fakePort) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tx.String()
}

func (f *fakePort) Write(p []byte) (int, error) {
	if f.writeDelay > 0 {
		time.Sleep(f.writeDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tx.Write(p)
}

// Err reports the injected failure once queued bytes are drained.
func (f *fakePort) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rx) > 0 {
		return nil
	}
	return f.recvErr
}

func (f *fakePort) Buffered() int             { f.mu.Lock(); defer f.mu.Unlock(); return len(f.rx) }
func (f *fakePort) Readable() <-chan struct{} { return f.rd }

func (f *fakePort) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	for {
		f.mu.Lock()
		n := copy(p, f.rx)
		f.rx = f.rx[n:]
		err := f.recvErr
		f.mu.Unlock()
		if n > 0 {
			return n, nil
		}
		if err != nil {
			return 0, err
		}
		select {
		case <-f.rd:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// --- helpers ---

type recorder struct {
	ch chan Event
}

func newRecorder() *recorder { return &recorder{ch: make(chan Event, 64)} }

func (r *recorder) cb(ev Event) { r.ch <- ev }

// expect waits for the next event and asserts its type.
func (r *recorder) expect(t *testing.T, typ EventType) Event {
	t.Helper()
	select {
	case ev := <-r.ch:
		require.Equal(t, typ.String(), ev.Type.String())
		return ev
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for %s", typ)
		return Event{}
	}
}

func (r *recorder) quiet(t *testing.T, d time.Duration) {
	t.Helper()
	select {
	case ev := <-r.ch:
		t.Fatalf("unexpected event %s", ev.Type)
	case <-time.After(d):
	}
}

func newDriver(t *testing.T) (*Driver, *fakePort, *recorder) {
	t.Helper()
	p := newFakePort()
	d := New(p)
	rec := newRecorder()
	require.NoError(t, d.SetCallback(rec.cb))
	t.Cleanup(func() { _ = d.Close() })
	return d, p, rec
}

// --- tests ---

func TestRxReadyAfterInactivity(t *testing.T) {
	d, p, rec := newDriver(t)
	buf := make([]byte, 10)
	require.NoError(t, d.RxEnable(buf, 5*time.Millisecond))
	rec.expect(t, RxBufRequest)

	p.inject([]byte("1"))
	ev := rec.expect(t, RxReady)
	assert.Equal(t, 0, ev.Offset)
	assert.Equal(t, 1, ev.Len)
	assert.Equal(t, []byte("1"), ev.Data())

	p.inject([]byte("2"))
	ev = rec.expect(t, RxReady)
	assert.Equal(t, 1, ev.Offset)
	assert.Equal(t, []byte("2"), ev.Data())
	assert.True(t, d.RxEnabled())
}

func TestRxZeroTimeoutReportsEveryRead(t *testing.T) {
	d, p, rec := newDriver(t)
	require.NoError(t, d.RxEnable(make([]byte, 4), 0))
	rec.expect(t, RxBufRequest)

	p.inject([]byte("ab"))
	ev := rec.expect(t, RxReady)
	assert.Equal(t, []byte("ab"), ev.Data())
}

func TestRxFullBufferReleasesAndDisables(t *testing.T) {
	d, p, rec := newDriver(t)
	buf := make([]byte, 10)
	require.NoError(t, d.RxEnable(buf, Forever))
	rec.expect(t, RxBufRequest)

	p.inject([]byte("0123456789AB"))
	ev := rec.expect(t, RxReady)
	assert.Equal(t, 0, ev.Offset)
	assert.Equal(t, 10, ev.Len)
	rel := rec.expect(t, RxBufReleased)
	assert.Equal(t, &buf[0], &rel.Buf[0])
	rec.expect(t, RxDisabled)
	assert.False(t, d.RxEnabled())

	// Bytes that arrived while disabled wait in the port.
	rec.quiet(t, 10*time.Millisecond)
	assert.Equal(t, 2, p.Buffered())

	require.NoError(t, d.RxEnable(buf, time.Millisecond))
	rec.expect(t, RxBufRequest)
	ev = rec.expect(t, RxReady)
	assert.Equal(t, []byte("AB"), ev.Data())
}

func TestRxEnableFromDisabledCallback(t *testing.T) {
	p := newFakePort()
	d := New(p)
	t.Cleanup(func() { _ = d.Close() })

	buf := make([]byte, 2)
	rec := newRecorder()
	require.NoError(t, d.SetCallback(func(ev Event) {
		if ev.Type == RxDisabled {
			// Re-arm synchronously from the driver goroutine.
			if err := d.RxEnable(buf, Forever); !errors.Is(err, errcode.Closed) {
				assert.NoError(t, err)
			}
		}
		rec.cb(ev)
	}))
	require.NoError(t, d.RxEnable(buf, Forever))
	rec.expect(t, RxBufRequest)

	p.inject([]byte("xy"))
	rec.expect(t, RxReady)
	rec.expect(t, RxBufReleased)
	rec.expect(t, RxDisabled)
	rec.expect(t, RxBufRequest)
	assert.True(t, d.RxEnabled())

	p.inject([]byte("zw"))
	ev := rec.expect(t, RxReady)
	assert.Equal(t, []byte("zw"), ev.Data())
}

func TestRxDoubleBuffering(t *testing.T) {
	d, p, rec := newDriver(t)
	first, second := make([]byte, 3), make([]byte, 3)
	require.NoError(t, d.RxEnable(first, Forever))
	rec.expect(t, RxBufRequest)
	require.NoError(t, d.RxBufRsp(second))
	assert.ErrorIs(t, d.RxBufRsp(second), errcode.Busy)

	p.inject([]byte("abc"))
	rec.expect(t, RxReady)
	rel := rec.expect(t, RxBufReleased)
	assert.Equal(t, &first[0], &rel.Buf[0])
	rec.expect(t, RxBufRequest)
	assert.True(t, d.RxEnabled())

	p.inject([]byte("def"))
	ev := rec.expect(t, RxReady)
	assert.Equal(t, []byte("def"), ev.Data())
	assert.Equal(t, &second[0], &ev.Buf[0])
}

func TestRxDisableFlushesPending(t *testing.T) {
	d, p, rec := newDriver(t)
	buf := make([]byte, 10)
	require.NoError(t, d.RxEnable(buf, Forever))
	rec.expect(t, RxBufRequest)

	p.inject([]byte("hi"))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, d.RxDisable())

	ev := rec.expect(t, RxReady)
	assert.Equal(t, []byte("hi"), ev.Data())
	rec.expect(t, RxBufReleased)
	rec.expect(t, RxDisabled)
	assert.ErrorIs(t, d.RxDisable(), errcode.NotEnabled)
}

func TestRxPortFailureStops(t *testing.T) {
	d, p, rec := newDriver(t)
	require.NoError(t, d.RxEnable(make([]byte, 4), Forever))
	rec.expect(t, RxBufRequest)

	boom := errors.New("framing")
	p.fail(boom)
	ev := rec.expect(t, RxStopped)
	assert.ErrorIs(t, ev.Reason, boom)
	rec.expect(t, RxBufReleased)
	rec.expect(t, RxDisabled)

	// A failed port refuses re-enabling instead of failing again at once.
	err := d.RxEnable(make([]byte, 4), Forever)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, errcode.RxFailed, errcode.Of(err))
	assert.False(t, d.RxEnabled())
	rec.quiet(t, 10*time.Millisecond)
}

func TestRxFailedPortDrainsBeforeRefusing(t *testing.T) {
	d, p, rec := newDriver(t)
	p.inject([]byte("1"))
	p.fail(errors.New("eof"))

	require.NoError(t, d.RxEnable(make([]byte, 4), 0))
	rec.expect(t, RxBufRequest)
	ev := rec.expect(t, RxReady)
	assert.Equal(t, []byte("1"), ev.Data())
	rec.expect(t, RxStopped)
	rec.expect(t, RxBufReleased)
	rec.expect(t, RxDisabled)
	assert.Error(t, d.RxEnable(make([]byte, 4), 0))
}

func TestCloseStopsReceptionWithoutDisabled(t *testing.T) {
	d, _, rec := newDriver(t)
	buf := make([]byte, 4)
	require.NoError(t, d.RxEnable(buf, Forever))
	rec.expect(t, RxBufRequest)

	require.NoError(t, d.Close())
	ev := rec.expect(t, RxStopped)
	assert.ErrorIs(t, ev.Reason, errcode.Closed)
	rel := rec.expect(t, RxBufReleased)
	assert.Equal(t, &buf[0], &rel.Buf[0])
	rec.quiet(t, 20*time.Millisecond)
	assert.False(t, d.RxEnabled())
}

func TestRxEnableErrors(t *testing.T) {
	d, _, rec := newDriver(t)
	assert.ErrorIs(t, d.RxEnable(nil, Forever), errcode.InvalidParams)

	require.NoError(t, d.RxEnable(make([]byte, 4), Forever))
	rec.expect(t, RxBufRequest)
	assert.ErrorIs(t, d.RxEnable(make([]byte, 4), Forever), errcode.Busy)
	assert.ErrorIs(t, d.SetCallback(nil), errcode.InvalidParams)

	require.NoError(t, d.Close())
	rec.expect(t, RxStopped)
	rec.expect(t, RxBufReleased)
	assert.ErrorIs(t, d.RxEnable(make([]byte, 4), Forever), errcode.Closed)
	assert.ErrorIs(t, d.Tx([]byte("x"), Forever), errcode.Closed)
	assert.False(t, d.Ready())
}

func TestTxDone(t *testing.T) {
	d, p, rec := newDriver(t)
	msg := []byte("Press 1-2 on your keyboard in a Serial Emulator to toggle LEDS.\n\r")
	require.NoError(t, d.Tx(msg, Forever))

	ev := rec.expect(t, TxDone)
	assert.Equal(t, len(msg), ev.TxLen)
	assert.Equal(t, string(msg), p.written())
}

func TestTxBusyAndTimeout(t *testing.T) {
	d, p, rec := newDriver(t)
	p.writeDelay = 20 * time.Millisecond

	msg := bytes.Repeat([]byte("x"), 4*txChunk)
	require.NoError(t, d.Tx(msg, 30*time.Millisecond))
	assert.ErrorIs(t, d.Tx(msg, Forever), errcode.Busy)

	ev := rec.expect(t, TxAborted)
	assert.Less(t, ev.TxLen, len(msg))
	assert.Equal(t, 0, ev.TxLen%txChunk)

	// The channel is free again after completion.
	p.writeDelay = 0
	require.NoError(t, d.Tx([]byte("ok"), Forever))
	rec.expect(t, TxDone)
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "rx_ready", RxReady.String())
	assert.Equal(t, "rx_disabled", RxDisabled.String())
	assert.Equal(t, "unknown", EventType(200).String())
	assert.Nil(t, Event{Type: RxDisabled}.Data())
}
