//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"ledtoggle-go/services/hal"
)

func bootContext() (context.Context, context.CancelFunc) {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	return context.WithCancel(context.Background())
}

func openBoard(context.Context) (*hal.Board, func(), error) {
	b, err := hal.Open(hal.Selected())
	return b, nil, err
}
