package ledctl

import (
	"context"
	"runtime"

	"ledtoggle-go/errcode"
	"ledtoggle-go/services/hal"
	"ledtoggle-go/types"
)

// Setup brings the peripherals up in a fixed order and stops at the first
// failure. Nothing is retried.
func (c *Controller) Setup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.ledA.Ready() || !c.ledB.Ready() {
		return &errcode.E{C: errcode.NotReady, Op: "led_port"}
	}
	if !c.button.Ready() {
		return &errcode.E{C: errcode.NotReady, Op: "button_port"}
	}
	if !c.serial.Ready() {
		return &errcode.E{C: errcode.NotReady, Op: "uart"}
	}
	if err := c.ledA.Configure(false); err != nil {
		return errcode.Wrap(errcode.ConfigureFailed, "led_a", err)
	}
	if err := c.ledB.Configure(false); err != nil {
		return errcode.Wrap(errcode.ConfigureFailed, "led_b", err)
	}
	if err := c.button.Configure(); err != nil {
		return errcode.Wrap(errcode.ConfigureFailed, "button", err)
	}
	if err := c.serial.SetCallback(c.HandleSerial); err != nil {
		return errcode.Wrap(errcode.CallbackFailed, "uart_callback", err)
	}
	if err := c.serial.Tx(c.greeting, hal.Forever); err != nil {
		return errcode.Wrap(errcode.TxFailed, "greeting", err)
	}
	if err := c.button.OnActive(c.HandleButton); err != nil {
		return errcode.Wrap(errcode.CallbackFailed, "button_irq", err)
	}
	// Armed before the driver starts: its first RxDisabled may reach
	// HandleSerial before RxEnable returns.
	c.rx.state = rxArmed
	if err := c.serial.RxEnable(c.rx.buf[:], types.RxInactivity); err != nil {
		c.rx.state = rxIdle
		return errcode.Wrap(errcode.RxFailed, "rx_enable", err)
	}
	c.log.Info("ready")
	return nil
}

// Idle yields the processor until ctx ends. On the device ctx never ends.
func (c *Controller) Idle(ctx context.Context) error {
	yield := c.Yield
	if yield == nil {
		yield = runtime.Gosched
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			yield()
		}
	}
}
