package main

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/shlex"

	"ledtoggle-go/types"
)

// The device reports bytes after 100µs of line silence and ignores reports
// longer than one byte, so commands are paced.
const defaultGap = 5 * time.Millisecond

var errUnknownLED = errors.New("led must be a or b")

// Console talks to the device over a serial link.
type Console struct {
	port io.ReadWriter
	gap  time.Duration

	mu    sync.Mutex
	sinks []func([]byte)
}

func NewConsole(port io.ReadWriter, gap time.Duration) *Console {
	if gap <= 0 {
		gap = defaultGap
	}
	return &Console{port: port, gap: gap}
}

// OnOutput registers f for every chunk the device sends.
func (c *Console) OnOutput(f func([]byte)) {
	c.mu.Lock()
	c.sinks = append(c.sinks, f)
	c.mu.Unlock()
}

// Pump copies device output to the sinks until ctx ends or the port fails.
func (c *Console) Pump(ctx context.Context) error {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := c.port.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			c.mu.Lock()
			sinks := c.sinks
			c.mu.Unlock()
			for _, f := range sinks {
				f(chunk)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				// tarm/serial reports a read timeout as EOF
				continue
			}
			return err
		}
	}
	return ctx.Err()
}

// Send writes each byte on its own, gap apart.
func (c *Console) Send(b []byte) error {
	for i, x := range b {
		if i > 0 {
			time.Sleep(c.gap)
		}
		if _, err := c.port.Write([]byte{x}); err != nil {
			return err
		}
		if glog.V(2) {
			glog.Infof("TX %#02x", x)
		}
	}
	return nil
}

// Toggle sends the command for led "a" or "b".
func (c *Console) Toggle(led string) error {
	cmd, err := ledCommand(led)
	if err != nil {
		return err
	}
	return c.Send([]byte{cmd})
}

// Raw sends hex-encoded bytes, e.g. "31 32" or "3132".
func (c *Console) Raw(args []string) error {
	b, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		return err
	}
	return c.Send(b)
}

func ledCommand(led string) (byte, error) {
	switch strings.ToLower(led) {
	case "a", "1":
		return types.CmdToggleA, nil
	case "b", "2":
		return types.CmdToggleB, nil
	}
	return 0, errUnknownLED
}

// splitScript turns "led a; send 12" into argument lists.
func splitScript(script string) ([][]string, error) {
	var out [][]string
	for _, stmt := range strings.Split(script, ";") {
		args, err := shlex.Split(stmt)
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			out = append(out, args)
		}
	}
	return out, nil
}
