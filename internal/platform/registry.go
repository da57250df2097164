package platform

import (
	"fmt"
	"sync"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/robot"
)

// AdaptorBuilder constructs an adaptor from its connection configuration.
type AdaptorBuilder func(cfg config.ConnectionConfig) (robot.Adaptor, error)

// DriverBuilder constructs a driver from its device configuration. The
// adaptor is the one the device will be bound to; builders that need a
// concrete client type-assert it and reject mismatches.
type DriverBuilder func(cfg config.DeviceConfig, adaptor robot.Adaptor) (robot.Driver, error)

var (
	mu       sync.RWMutex
	adaptors = make(map[string]AdaptorBuilder)
	drivers  = make(map[string]DriverBuilder)
)

// RegisterAdaptor makes an adaptor type available to BuildConnection.
// Intended to be called from init functions of platform subpackages.
// Panics if the name is empty, the builder is nil, or the name is taken,
// following the database/sql driver registration convention.
func RegisterAdaptor(name string, builder AdaptorBuilder) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" || builder == nil {
		panic("platform: RegisterAdaptor requires a name and a builder")
	}
	if _, dup := adaptors[name]; dup {
		panic(fmt.Sprintf("platform: adaptor %q registered twice", name))
	}
	adaptors[name] = builder
}

// RegisterDriver makes a driver type available to BuildDevice.
// Same rules as RegisterAdaptor.
func RegisterDriver(name string, builder DriverBuilder) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" || builder == nil {
		panic("platform: RegisterDriver requires a name and a builder")
	}
	if _, dup := drivers[name]; dup {
		panic(fmt.Sprintf("platform: driver %q registered twice", name))
	}
	drivers[name] = builder
}

// Adaptors returns the registered adaptor type names.
func Adaptors() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(adaptors))
	for name := range adaptors {
		names = append(names, name)
	}
	return names
}

// Drivers returns the registered driver type names.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// BuildConnection turns a connection config into a spec ready for
// robot.Config, building the adaptor and any embedded devices.
func BuildConnection(cfg config.ConnectionConfig) (robot.ConnectionSpec, error) {
	mu.RLock()
	builder, ok := adaptors[cfg.Type]
	mu.RUnlock()
	if !ok {
		return robot.ConnectionSpec{}, fmt.Errorf("%w: %q", ErrUnknownAdaptor, cfg.Type)
	}

	adaptor, err := builder(cfg)
	if err != nil {
		return robot.ConnectionSpec{}, fmt.Errorf("building adaptor %q: %w", cfg.Type, err)
	}

	spec := robot.ConnectionSpec{
		Name:    cfg.Name,
		Host:    cfg.Host,
		Port:    cfg.Port,
		Adaptor: adaptor,
	}
	for _, devCfg := range cfg.Devices {
		devSpec, err := BuildDevice(devCfg, adaptor)
		if err != nil {
			return robot.ConnectionSpec{}, err
		}
		spec.Devices = append(spec.Devices, devSpec)
	}
	return spec, nil
}

// BuildDevice turns a device config into a spec bound to the given adaptor.
func BuildDevice(cfg config.DeviceConfig, adaptor robot.Adaptor) (robot.DeviceSpec, error) {
	mu.RLock()
	builder, ok := drivers[cfg.Type]
	mu.RUnlock()
	if !ok {
		return robot.DeviceSpec{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Type)
	}

	driver, err := builder(cfg, adaptor)
	if err != nil {
		return robot.DeviceSpec{}, fmt.Errorf("building driver %q: %w", cfg.Type, err)
	}

	return robot.DeviceSpec{
		Name:       cfg.Name,
		Connection: cfg.Connection,
		Pin:        cfg.Pin,
		Driver:     driver,
	}, nil
}

// Assemble turns a robot config into a robot.Config with all adaptors and
// drivers built. Top-level devices bind to the connection they name, or to
// the first connection when they name none.
func Assemble(cfg config.RobotConfig) (robot.Config, error) {
	rc := robot.Config{
		Name:      cfg.Name,
		AutoStart: cfg.AutoStart,
		WorkMode:  robot.WorkMode(cfg.WorkMode),
		Events:    cfg.Events,
	}

	byName := make(map[string]robot.Adaptor)
	var first robot.Adaptor

	for _, connCfg := range cfg.Connections {
		spec, err := BuildConnection(connCfg)
		if err != nil {
			return robot.Config{}, err
		}
		byName[spec.Name] = spec.Adaptor
		if first == nil {
			first = spec.Adaptor
		}
		rc.Connections = append(rc.Connections, spec)
	}

	for _, devCfg := range cfg.Devices {
		adaptor := first
		if devCfg.Connection != "" {
			var ok bool
			adaptor, ok = byName[devCfg.Connection]
			if !ok {
				return robot.Config{}, fmt.Errorf("device %q: unknown connection %q", devCfg.Name, devCfg.Connection)
			}
		}
		spec, err := BuildDevice(devCfg, adaptor)
		if err != nil {
			return robot.Config{}, err
		}
		rc.Devices = append(rc.Devices, spec)
	}

	return rc, nil
}
