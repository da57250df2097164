// Package serial provides an adaptor for serial ports via goburrow/serial.
//
// Registered under the type name "serial". Drivers that speak a serial
// protocol obtain the open port from the adaptor's Port method.
package serial

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	goserial "github.com/goburrow/serial"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/robot"
)

// Port defaults, applied when params leave them unset.
const (
	defaultBaudRate = 115200
	defaultDataBits = 8
	defaultStopBits = 1
	defaultParity   = "N"
	defaultTimeout  = 5 * time.Second
)

func init() {
	platform.RegisterAdaptor("serial", func(cfg config.ConnectionConfig) (robot.Adaptor, error) {
		return NewAdaptor(cfg)
	})
}

// Adaptor owns one serial port.
//
// Connection params:
//   - address: device path, e.g. /dev/ttyUSB0 (falls back to the host field)
//   - baud_rate: default 115200
//   - data_bits: default 8
//   - stop_bits: default 1
//   - parity: "N", "E" or "O", default "N"
//   - timeout_seconds: read timeout, default 5
type Adaptor struct {
	cfg goserial.Config

	mu   sync.Mutex
	port goserial.Port
}

// NewAdaptor builds a serial adaptor. The port is opened on Connect.
func NewAdaptor(cfg config.ConnectionConfig) (*Adaptor, error) {
	address := platform.StringParam(cfg.Params, "address", cfg.Host)
	if address == "" {
		return nil, fmt.Errorf("serial connection %q: address is required", cfg.Name)
	}

	timeout := defaultTimeout
	if secs := platform.IntParam(cfg.Params, "timeout_seconds", 0); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	return &Adaptor{
		cfg: goserial.Config{
			Address:  address,
			BaudRate: platform.IntParam(cfg.Params, "baud_rate", defaultBaudRate),
			DataBits: platform.IntParam(cfg.Params, "data_bits", defaultDataBits),
			StopBits: platform.IntParam(cfg.Params, "stop_bits", defaultStopBits),
			Parity:   platform.StringParam(cfg.Params, "parity", defaultParity),
			Timeout:  timeout,
		},
	}, nil
}

// Address returns the configured device path.
func (a *Adaptor) Address() string { return a.cfg.Address }

// Connect opens the serial port.
func (a *Adaptor) Connect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	port, err := goserial.Open(&a.cfg)
	if err != nil {
		return fmt.Errorf("opening serial port %q: %w", a.cfg.Address, err)
	}
	a.port = port
	return nil
}

// Disconnect closes the serial port.
func (a *Adaptor) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.port == nil {
		return nil
	}
	err := a.port.Close()
	a.port = nil
	if err != nil {
		return fmt.Errorf("closing serial port %q: %w", a.cfg.Address, err)
	}
	return nil
}

// Port returns the open port, or nil before Connect.
func (a *Adaptor) Port() io.ReadWriteCloser {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.port
}
