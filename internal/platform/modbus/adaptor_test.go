package modbus

import (
	"context"
	"errors"
	"testing"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
)

func TestNewAdaptor_TCPDefaults(t *testing.T) {
	a, err := NewAdaptor(config.ConnectionConfig{
		Name: "plc",
		Type: "modbus",
		Host: "192.168.1.50",
	})
	if err != nil {
		t.Fatalf("NewAdaptor() error = %v", err)
	}
	if a.Mode() != "tcp" {
		t.Errorf("Mode() = %q, want tcp", a.Mode())
	}
}

func TestNewAdaptor_RTU(t *testing.T) {
	a, err := NewAdaptor(config.ConnectionConfig{
		Name: "bus",
		Type: "modbus",
		Params: map[string]any{
			"mode":      "rtu",
			"address":   "/dev/ttyUSB0",
			"baud_rate": 9600,
			"slave_id":  3,
		},
	})
	if err != nil {
		t.Fatalf("NewAdaptor() error = %v", err)
	}
	if a.Mode() != "rtu" {
		t.Errorf("Mode() = %q, want rtu", a.Mode())
	}
}

func TestNewAdaptor_Invalid(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.ConnectionConfig
	}{
		{"tcp without host", config.ConnectionConfig{Name: "plc"}},
		{"rtu without address", config.ConnectionConfig{Name: "bus", Params: map[string]any{"mode": "rtu"}}},
		{"unrecognised mode", config.ConnectionConfig{Name: "x", Host: "h", Params: map[string]any{"mode": "ascii"}}},
		{"slave id out of range", config.ConnectionConfig{Name: "x", Host: "h", Params: map[string]any{"slave_id": 300}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewAdaptor(tc.cfg); err == nil {
				t.Error("NewAdaptor() should fail")
			}
		})
	}
}

func TestClient_BeforeConnect(t *testing.T) {
	a, err := NewAdaptor(config.ConnectionConfig{Name: "plc", Host: "192.168.1.50"})
	if err != nil {
		t.Fatalf("NewAdaptor() error = %v", err)
	}
	if _, err := a.Client(); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Client() error = %v, want ErrNotConnected", err)
	}
	if err := a.Disconnect(context.Background()); err != nil {
		t.Errorf("Disconnect() error = %v", err)
	}
}

func TestNewCoil(t *testing.T) {
	a, err := NewAdaptor(config.ConnectionConfig{Name: "plc", Host: "192.168.1.50"})
	if err != nil {
		t.Fatalf("NewAdaptor() error = %v", err)
	}

	d, err := NewCoil(a, config.DeviceConfig{Name: "pump", Type: "modbus.coil", Pin: "17"})
	if err != nil {
		t.Fatalf("NewCoil() error = %v", err)
	}
	if d.Address() != 17 {
		t.Errorf("Address() = %d, want 17", d.Address())
	}

	if _, err := NewCoil(a, config.DeviceConfig{Name: "pump", Pin: "valve"}); err == nil {
		t.Error("NewCoil() should reject a non-numeric pin")
	}

	// Writes before the bus is open surface the adaptor's state error.
	if err := d.Start(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Start() error = %v, want ErrNotConnected", err)
	}
}
