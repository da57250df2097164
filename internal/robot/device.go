package robot

import (
	"context"
	"fmt"
	"sync"
)

// Driver is the contract a peripheral implementation must satisfy. Start and
// Halt are expected to be blocking and to honour context cancellation.
type Driver interface {
	Start(ctx context.Context) error
	Halt(ctx context.Context) error
}

// DeviceSpec declares a device to register on a robot.
type DeviceSpec struct {
	// Name identifies the device within its robot. Required.
	Name string

	// Connection names the connection this device is bound to. If empty, the
	// device binds to the robot's earliest-registered connection, if one
	// exists. A name that matches no connection is a registration error.
	Connection string

	// Pin identifies the driver's terminal (GPIO pin, register, topic...),
	// for logging and serialization only. Optional.
	Pin string

	// Driver is the underlying peripheral implementation. Required.
	Driver Driver
}

// Device is the robot-owned handle around one Driver. A device references
// its connection but does not own it.
type Device struct {
	name       string
	pin        string
	driver     Driver
	connection *Connection

	mu      sync.Mutex
	started bool
}

// Name returns the device's resolved (unique within the robot) name.
func (d *Device) Name() string { return d.name }

// Pin returns the configured pin, or "" if none was given.
func (d *Device) Pin() string { return d.pin }

// Driver returns the wrapped driver instance.
func (d *Device) Driver() Driver { return d.driver }

// Connection returns the connection this device is bound to, or nil if the
// robot had no connections when the device was registered.
func (d *Device) Connection() *Connection { return d.connection }

// Started reports whether the device has been marked started.
//
// Like Connection.Connected, the flag is set optimistically when Start is
// invoked, not when the driver confirms completion.
func (d *Device) Started() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.started
}

func (d *Device) setStarted(v bool) {
	d.mu.Lock()
	d.started = v
	d.mu.Unlock()
}

// start is the phase-2 start unit. An already-started device succeeds
// immediately without touching its driver.
func (d *Device) start(ctx context.Context) error {
	if d.Started() {
		return nil
	}
	d.setStarted(true)
	if err := d.driver.Start(ctx); err != nil {
		return fmt.Errorf("device %q: start: %w", d.name, err)
	}
	return nil
}

// halt is the phase-1 halt unit. The started flag is cleared at invocation
// time regardless of the driver's outcome.
func (d *Device) halt(ctx context.Context) error {
	d.setStarted(false)
	if err := d.driver.Halt(ctx); err != nil {
		return fmt.Errorf("device %q: halt: %w", d.name, err)
	}
	return nil
}

// deviceSet keeps devices in registration order with name lookup.
// It is mutated only under the owning robot's lock.
type deviceSet struct {
	order  []*Device
	byName map[string]*Device
}

func newDeviceSet() *deviceSet {
	return &deviceSet{byName: make(map[string]*Device)}
}

func (s *deviceSet) add(d *Device) {
	s.order = append(s.order, d)
	s.byName[d.name] = d
}

func (s *deviceSet) get(name string) (*Device, bool) {
	d, ok := s.byName[name]
	return d, ok
}

// all returns the devices in registration order. The slice is a copy; the
// handles are shared.
func (s *deviceSet) all() []*Device {
	out := make([]*Device, len(s.order))
	copy(out, s.order)
	return out
}
