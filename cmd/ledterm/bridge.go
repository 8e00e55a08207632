package main

import (
	"time"

	"github.com/denisbrodbeck/machineid"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"
)

const bridgeTimeout = 5 * time.Second

// Bridge forwards MQTT payloads on <topic>/cmd to the device and publishes
// device output on <topic>/out.
type Bridge struct {
	client paho.Client
	topic  string
}

// clientID is stable per host so a broker can tell consoles apart.
func clientID() string {
	id, err := machineid.ProtectedID("ledterm")
	if err != nil || len(id) < 12 {
		return "ledterm"
	}
	return "ledterm-" + id[:12]
}

func NewBridge(broker, topic string) *Bridge {
	opts := paho.NewClientOptions()
	opts.AddBroker(broker).
		SetClientID(clientID()).
		SetAutoReconnect(true).
		SetCleanSession(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		glog.Warningf("mqtt connection lost: %v", err)
	})
	return &Bridge{client: paho.NewClient(opts), topic: topic}
}

// Start connects and wires con both ways.
func (b *Bridge) Start(con *Console) error {
	if tok := b.client.Connect(); !tok.WaitTimeout(bridgeTimeout) {
		return errTimeout
	} else if err := tok.Error(); err != nil {
		return err
	}
	glog.Info("mqtt connected")

	tok := b.client.Subscribe(b.topic+"/cmd", 0, func(_ paho.Client, m paho.Message) {
		if err := con.Send(m.Payload()); err != nil {
			glog.Errorf("forward %q: %v", m.Topic(), err)
		}
	})
	if !tok.WaitTimeout(bridgeTimeout) {
		return errTimeout
	}
	if err := tok.Error(); err != nil {
		return err
	}

	con.OnOutput(func(p []byte) {
		b.client.Publish(b.topic+"/out", 0, false, p)
	})
	return nil
}

func (b *Bridge) Close() { b.client.Disconnect(250) }
