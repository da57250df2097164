package modbus

import (
	"context"
	"fmt"
	"strconv"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
)

// Coil function values per the Modbus spec (function code 0x05).
const (
	coilOn  = 0xFF00
	coilOff = 0x0000
)

// Coil drives a single coil: energised at Start, released at Halt.
// The device pin is the coil address.
type Coil struct {
	adaptor *Adaptor
	address uint16
}

// NewCoil builds a coil driver from device configuration.
func NewCoil(adaptor *Adaptor, cfg config.DeviceConfig) (*Coil, error) {
	addr, err := strconv.ParseUint(cfg.Pin, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("modbus device %q: pin %q is not a coil address: %w", cfg.Name, cfg.Pin, err)
	}
	return &Coil{adaptor: adaptor, address: uint16(addr)}, nil
}

// Address returns the coil address.
func (d *Coil) Address() uint16 { return d.address }

// Start energises the coil.
func (d *Coil) Start(_ context.Context) error {
	return d.write(coilOn)
}

// Halt releases the coil.
func (d *Coil) Halt(_ context.Context) error {
	return d.write(coilOff)
}

func (d *Coil) write(value uint16) error {
	client, err := d.adaptor.Client()
	if err != nil {
		return err
	}
	if _, err := client.WriteSingleCoil(d.address, value); err != nil {
		return fmt.Errorf("writing coil %d: %w", d.address, err)
	}
	return nil
}
