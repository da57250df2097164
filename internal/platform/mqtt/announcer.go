package mqtt

import (
	"context"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
)

// Presence payloads published by the announcer.
const (
	payloadOnline  = "online"
	payloadOffline = "offline"
)

// Announcer is a driver that publishes presence to a topic: "online" when
// its device starts, "offline" when it halts. Both messages are retained so
// late subscribers see the current state.
//
// Device params:
//   - topic: the presence topic (default "automaton/<device name>/status")
type Announcer struct {
	adaptor *Adaptor
	topic   string
}

// NewAnnouncer builds a presence announcer publishing through the given adaptor.
func NewAnnouncer(adaptor *Adaptor, cfg config.DeviceConfig) *Announcer {
	topic := platform.StringParam(cfg.Params, "topic", "automaton/"+cfg.Name+"/status")
	return &Announcer{adaptor: adaptor, topic: topic}
}

// Topic returns the presence topic.
func (d *Announcer) Topic() string { return d.topic }

// Start publishes the retained online message.
func (d *Announcer) Start(_ context.Context) error {
	return d.adaptor.Publish(d.topic, []byte(payloadOnline), true)
}

// Halt publishes the retained offline message.
func (d *Announcer) Halt(_ context.Context) error {
	return d.adaptor.Publish(d.topic, []byte(payloadOffline), true)
}
