// Package loopback provides an in-memory adaptor and driver pair.
//
// It backs tests, examples, and robots that carry pure-software work with
// no hardware attached. Registered under the type name "loopback".
package loopback

import (
	"context"
	"errors"
	"sync"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/robot"
)

func init() {
	platform.RegisterAdaptor("loopback", func(cfg config.ConnectionConfig) (robot.Adaptor, error) {
		a := NewAdaptor()
		a.failConnect = platform.BoolParam(cfg.Params, "fail_connect", false)
		return a, nil
	})
	platform.RegisterDriver("loopback", func(cfg config.DeviceConfig, _ robot.Adaptor) (robot.Driver, error) {
		d := NewDriver()
		d.failStart = platform.BoolParam(cfg.Params, "fail_start", false)
		return d, nil
	})
}

// ErrInjected is returned by adaptors and drivers configured to fail,
// used to exercise failure paths without hardware.
var ErrInjected = errors.New("loopback: injected failure")

// Adaptor is an in-memory adaptor. Connect and Disconnect only flip a flag.
type Adaptor struct {
	mu          sync.Mutex
	connected   bool
	connects    int
	disconnects int
	failConnect bool
}

// NewAdaptor returns a disconnected loopback adaptor.
func NewAdaptor() *Adaptor {
	return &Adaptor{}
}

// Connect marks the adaptor connected.
func (a *Adaptor) Connect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connects++
	if a.failConnect {
		return ErrInjected
	}
	a.connected = true
	return nil
}

// Disconnect marks the adaptor disconnected.
func (a *Adaptor) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnects++
	a.connected = false
	return nil
}

// Connected reports whether Connect has succeeded.
func (a *Adaptor) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connected
}

// Counts returns how many times Connect and Disconnect were called.
func (a *Adaptor) Counts() (connects, disconnects int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects, a.disconnects
}

// Driver is an in-memory driver. Start and Halt only flip a flag.
type Driver struct {
	mu        sync.Mutex
	running   bool
	starts    int
	halts     int
	failStart bool
}

// NewDriver returns a stopped loopback driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Start marks the driver running.
func (d *Driver) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	if d.failStart {
		return ErrInjected
	}
	d.running = true
	return nil
}

// Halt marks the driver stopped.
func (d *Driver) Halt(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.halts++
	d.running = false
	return nil
}

// Running reports whether Start has succeeded.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Counts returns how many times Start and Halt were called.
func (d *Driver) Counts() (starts, halts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.halts
}
