// Package modbus provides Modbus TCP and RTU adaptors and drivers built on
// goburrow/modbus.
//
// Registered types:
//   - adaptor "modbus": TCP or RTU depending on the mode param
//   - driver  "modbus.coil": drives one coil on at Start, off at Halt
package modbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	gomodbus "github.com/goburrow/modbus"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/robot"
)

const (
	defaultTCPPort  = 502
	defaultTimeout  = 5 * time.Second
	defaultSlaveID  = 1
	defaultBaudRate = 19200
	defaultDataBits = 8
	defaultStopBits = 1
	defaultParity   = "E"
)

func init() {
	platform.RegisterAdaptor("modbus", func(cfg config.ConnectionConfig) (robot.Adaptor, error) {
		return NewAdaptor(cfg)
	})
	platform.RegisterDriver("modbus.coil", func(cfg config.DeviceConfig, adaptor robot.Adaptor) (robot.Driver, error) {
		a, ok := adaptor.(*Adaptor)
		if !ok {
			return nil, fmt.Errorf("%w: modbus.coil needs a modbus connection, got %T",
				platform.ErrAdaptorMismatch, adaptor)
		}
		return NewCoil(a, cfg)
	})
}

// handler is satisfied by both the TCP and RTU client handlers.
type handler interface {
	gomodbus.ClientHandler
	Connect() error
	Close() error
}

// Adaptor owns one Modbus bus, TCP or RTU.
//
// Connection params:
//   - mode: "tcp" (default) or "rtu"
//   - slave_id: unit identifier, default 1
//   - timeout_seconds: request timeout, default 5
//
// RTU mode additionally reads address (device path, falls back to the host
// field), baud_rate (19200), data_bits (8), stop_bits (1) and parity ("E"),
// the Modbus-over-serial-line defaults.
type Adaptor struct {
	mode    string
	handler handler

	mu        sync.Mutex
	client    gomodbus.Client
	connected bool
}

// NewAdaptor builds a Modbus adaptor. The bus is opened on Connect.
func NewAdaptor(cfg config.ConnectionConfig) (*Adaptor, error) {
	mode := platform.StringParam(cfg.Params, "mode", "tcp")
	timeout := defaultTimeout
	if secs := platform.IntParam(cfg.Params, "timeout_seconds", 0); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	slaveID := platform.IntParam(cfg.Params, "slave_id", defaultSlaveID)
	if slaveID < 0 || slaveID > 255 {
		return nil, fmt.Errorf("modbus connection %q: slave_id %d out of range", cfg.Name, slaveID)
	}

	var h handler
	switch mode {
	case "tcp":
		if cfg.Host == "" {
			return nil, fmt.Errorf("modbus connection %q: host is required for tcp mode", cfg.Name)
		}
		port := cfg.Port
		if port == 0 {
			port = defaultTCPPort
		}
		th := gomodbus.NewTCPClientHandler(fmt.Sprintf("%s:%d", cfg.Host, port))
		th.Timeout = timeout
		th.SlaveId = byte(slaveID)
		h = th
	case "rtu":
		address := platform.StringParam(cfg.Params, "address", cfg.Host)
		if address == "" {
			return nil, fmt.Errorf("modbus connection %q: address is required for rtu mode", cfg.Name)
		}
		rh := gomodbus.NewRTUClientHandler(address)
		rh.Timeout = timeout
		rh.SlaveId = byte(slaveID)
		rh.BaudRate = platform.IntParam(cfg.Params, "baud_rate", defaultBaudRate)
		rh.DataBits = platform.IntParam(cfg.Params, "data_bits", defaultDataBits)
		rh.StopBits = platform.IntParam(cfg.Params, "stop_bits", defaultStopBits)
		rh.Parity = platform.StringParam(cfg.Params, "parity", defaultParity)
		h = rh
	default:
		return nil, fmt.Errorf("modbus connection %q: unrecognised mode %q", cfg.Name, mode)
	}

	return &Adaptor{mode: mode, handler: h}, nil
}

// Mode returns "tcp" or "rtu".
func (a *Adaptor) Mode() string { return a.mode }

// Connect opens the bus.
func (a *Adaptor) Connect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.handler.Connect(); err != nil {
		return fmt.Errorf("opening modbus %s bus: %w", a.mode, err)
	}
	a.client = gomodbus.NewClient(a.handler)
	a.connected = true
	return nil
}

// Disconnect closes the bus.
func (a *Adaptor) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.connected {
		return nil
	}
	a.connected = false
	a.client = nil
	if err := a.handler.Close(); err != nil {
		return fmt.Errorf("closing modbus %s bus: %w", a.mode, err)
	}
	return nil
}

// Client returns the Modbus client, or an error before Connect.
func (a *Adaptor) Client() (gomodbus.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return nil, ErrNotConnected
	}
	return a.client, nil
}
