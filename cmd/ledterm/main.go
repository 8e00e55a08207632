// ledterm is an operator console for the LED toggle firmware: it opens the
// device's serial port, shows what the device prints and sends commands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"

	"ledtoggle-go/types"
)

var errTimeout = errors.New("timeout")

var (
	device      = flag.String("device", "/dev/ttyACM0", "Serial device of the board.")
	baud        = flag.Int("baud", types.DefaultBaud, "Baud rate.")
	script      = flag.String("e", "", "Run ';'-separated commands and exit, no interactive shell.")
	mqttBroker  = flag.String("mqtt", "", "Bridge to this MQTT broker, e.g. tcp://localhost:1883.")
	mqttTopic   = flag.String("topic", "ledtoggle", "MQTT topic prefix for the bridge.")
	readTimeout = flag.Duration("read-timeout", 100*time.Millisecond, "Serial read timeout.")
	gap         = flag.Duration("gap", defaultGap, "Pause between command bytes.")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}

func run() error {
	port, err := serial.OpenPort(&serial.Config{
		Name:        *device,
		Baud:        *baud,
		ReadTimeout: *readTimeout,
	})
	if err != nil {
		return fmt.Errorf("open %s: %w", *device, err)
	}
	defer port.Close()
	glog.Infof("opened %s at %d baud", *device, *baud)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	con := NewConsole(port, *gap)
	con.OnOutput(func(p []byte) { _, _ = os.Stdout.Write(p) })
	go func() {
		if err := con.Pump(ctx); err != nil && !errors.Is(err, context.Canceled) {
			glog.Errorf("serial read: %v", err)
		}
	}()

	if *mqttBroker != "" {
		br := NewBridge(*mqttBroker, *mqttTopic)
		if err := br.Start(con); err != nil {
			return fmt.Errorf("mqtt %s: %w", *mqttBroker, err)
		}
		defer br.Close()
	}

	sh := newShell(con)
	if *script != "" {
		if err := runScript(sh, *script); err != nil {
			return err
		}
		// let the device answer before closing the port
		time.Sleep(*readTimeout)
		return nil
	}
	if *mqttBroker != "" && !isTerminal() {
		<-ctx.Done()
		return nil
	}
	sh.Run()
	return nil
}

func isTerminal() bool {
	fi, err := os.Stdin.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
