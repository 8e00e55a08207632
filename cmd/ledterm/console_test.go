package main

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePort records writes one call at a time and serves reads from a pipe.
type fakePort struct {
	mu     sync.Mutex
	writes [][]byte
	r      io.Reader
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	p.writes = append(p.writes, append([]byte(nil), b...))
	p.mu.Unlock()
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.r == nil {
		return 0, io.EOF
	}
	return p.r.Read(b)
}

func (p *fakePort) sent() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

func TestSendWritesOneBytePerCall(t *testing.T) {
	p := &fakePort{}
	con := NewConsole(p, time.Millisecond)
	start := time.Now()
	require.NoError(t, con.Send([]byte("112A")))
	assert.Equal(t, [][]byte{{'1'}, {'1'}, {'2'}, {'A'}}, p.sent())
	assert.GreaterOrEqual(t, time.Since(start), 3*time.Millisecond)
}

func TestToggleAndRaw(t *testing.T) {
	p := &fakePort{}
	con := NewConsole(p, time.Microsecond)
	require.NoError(t, con.Toggle("a"))
	require.NoError(t, con.Toggle("B"))
	assert.ErrorIs(t, con.Toggle("c"), errUnknownLED)
	require.NoError(t, con.Raw([]string{"31", "3241"}))
	assert.Error(t, con.Raw([]string{"zz"}))

	var got []byte
	for _, w := range p.sent() {
		got = append(got, w...)
	}
	assert.Equal(t, []byte{0x31, 0x32, 0x31, 0x32, 0x41}, got)
}

func TestPumpFansOutDeviceOutput(t *testing.T) {
	pr, pw := io.Pipe()
	con := NewConsole(&fakePort{r: pr}, 0)

	var mu sync.Mutex
	var a, b bytes.Buffer
	con.OnOutput(func(p []byte) { mu.Lock(); a.Write(p); mu.Unlock() })
	con.OnOutput(func(p []byte) { mu.Lock(); b.Write(p); mu.Unlock() })

	done := make(chan error, 1)
	go func() { done <- con.Pump(context.Background()) }()
	_, _ = pw.Write([]byte("Press 1-2"))
	_ = pw.CloseWithError(io.ErrUnexpectedEOF)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	case <-time.After(time.Second):
		t.Fatal("pump did not return")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Press 1-2", a.String())
	assert.Equal(t, "Press 1-2", b.String())
}

func TestSplitScript(t *testing.T) {
	stmts, err := splitScript(`led a; send "1 2" ;; raw 31`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"led", "a"}, {"send", "1 2"}, {"raw", "31"}}, stmts)

	_, err = splitScript(`send "unterminated`)
	assert.Error(t, err)
}

func TestLEDCommand(t *testing.T) {
	b, err := ledCommand("1")
	require.NoError(t, err)
	assert.Equal(t, byte('1'), b)
	b, err = ledCommand("b")
	require.NoError(t, err)
	assert.Equal(t, byte('2'), b)
}
