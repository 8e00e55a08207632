//go:build unix && !rp2040 && !rp2350

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledtoggle-go/services/hal"
)

// On a desktop the serial link is stdin/stdout and SIGUSR1 presses the button.
// A terminal on stdin is switched to per-keystroke input until stop.
func bootContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	restore, err := cbreak(os.Stdin)
	if err != nil {
		println("stdin stays line buffered:", err.Error())
	}
	return ctx, func() {
		restore()
		cancel()
	}
}

func openBoard(ctx context.Context) (*hal.Board, func(), error) {
	b, sim, err := hal.OpenSim(hal.Selected(), os.Stdin, os.Stdout)
	if err != nil {
		return nil, nil, err
	}
	clicks := make(chan os.Signal, 1)
	signal.Notify(clicks, syscall.SIGUSR1)
	go func() {
		defer signal.Stop(clicks)
		for {
			select {
			case <-ctx.Done():
				return
			case <-clicks:
				sim.Click()
			}
		}
	}()
	return b, func() { time.Sleep(time.Millisecond) }, nil
}
