// services/hal/internal/dispatch/loop.go

// Package dispatch runs interrupt and serial handlers on a single goroutine so
// that they never overlap. IRQ entry points only do a non-blocking send.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal/internal/halcore"
	"ledtoggle-go/services/hal/internal/uartasync"
	"ledtoggle-go/services/hal/internal/util"
)

// InputEvent is handed to an input handler after the edge it registered for.
type InputEvent struct {
	ID    string
	Level int // raw pin level sampled in the ISR
	Edge  halcore.Edge
}

type Loop struct {
	// Written by ISR; MUST NOT block the ISR:
	isrQ chan isrEvent
	// Written by the serial driver goroutine:
	serQ chan uartasync.Event
	done chan struct{}

	mu      sync.RWMutex
	inputs  map[string]*watch
	serialH uartasync.Callback

	drops   uint32 // ISR drop counter
	handled uint32
}

type isrEvent struct {
	id    string
	level bool
}

type watch struct {
	id        string
	pin       halcore.IRQPin
	edge      halcore.Edge
	handler   func(InputEvent)
	cancelIRQ func()
}

func New(isrBuf, serBuf int) *Loop {
	return &Loop{
		isrQ:   make(chan isrEvent, util.ClampInt(isrBuf, 1, 256)),
		serQ:   make(chan uartasync.Event, util.ClampInt(serBuf, 1, 256)),
		done:   make(chan struct{}),
		inputs: map[string]*watch{},
	}
}

// Start runs the handler goroutine until ctx ends.
func (l *Loop) Start(ctx context.Context) {
	go func() {
		defer close(l.done)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-l.isrQ:
				l.handleISR(ev)
			case ev := <-l.serQ:
				l.handleSerial(ev)
			}
		}
	}()
}

// Done is closed once the handler goroutine has returned.
func (l *Loop) Done() <-chan struct{} { return l.done }

// RegisterInput arms pin for edge and runs handler on the loop for every
// qualifying edge. The returned func disarms it.
func (l *Loop) RegisterInput(id string, pin halcore.IRQPin, edge halcore.Edge, handler func(InputEvent)) (func(), error) {
	if pin == nil || handler == nil || edge == halcore.EdgeNone {
		return nil, errcode.InvalidParams
	}
	wh := &watch{id: id, pin: pin, edge: edge, handler: handler}

	// ISR handler: fast register read + non-blocking channel send.
	isr := func() {
		lv := pin.Get()
		select {
		case l.isrQ <- isrEvent{id: id, level: lv}:
		default:
			atomic.AddUint32(&l.drops, 1)
		}
	}

	l.mu.Lock()
	if _, dup := l.inputs[id]; dup {
		l.mu.Unlock()
		return nil, errcode.Busy
	}
	l.inputs[id] = wh
	l.mu.Unlock()

	if err := pin.SetIRQ(edge, isr); err != nil {
		l.mu.Lock()
		delete(l.inputs, id)
		l.mu.Unlock()
		return nil, err
	}
	wh.cancelIRQ = func() { _ = pin.ClearIRQ() }

	return func() {
		l.mu.Lock()
		if cur, ok := l.inputs[id]; ok {
			if cur.cancelIRQ != nil {
				cur.cancelIRQ()
			}
			delete(l.inputs, id)
		}
		l.mu.Unlock()
	}, nil
}

// Serial returns a driver callback that forwards events to h on the loop, in
// arrival order. The driver goroutine waits while the queue is full.
func (l *Loop) Serial(h uartasync.Callback) uartasync.Callback {
	l.mu.Lock()
	l.serialH = h
	l.mu.Unlock()
	return func(ev uartasync.Event) {
		select {
		case l.serQ <- ev:
		case <-l.done:
		}
	}
}

func (l *Loop) handleISR(ev isrEvent) {
	l.mu.RLock()
	wh := l.inputs[ev.id]
	l.mu.RUnlock()
	if wh == nil {
		return
	}
	atomic.AddUint32(&l.handled, 1)
	wh.handler(InputEvent{ID: ev.id, Level: util.BoolToInt(ev.level), Edge: wh.edge})
}

func (l *Loop) handleSerial(ev uartasync.Event) {
	l.mu.RLock()
	h := l.serialH
	l.mu.RUnlock()
	if h == nil {
		return
	}
	atomic.AddUint32(&l.handled, 1)
	h(ev)
}

// ISRDrops counts edges lost because the ISR queue was full.
func (l *Loop) ISRDrops() uint32 { return atomic.LoadUint32(&l.drops) }

// Handled counts handler invocations.
func (l *Loop) Handled() uint32 { return atomic.LoadUint32(&l.handled) }
