package platform_test

import (
	"context"
	"errors"
	"testing"

	"github.com/automaton-core/automaton/internal/infrastructure/config"
	"github.com/automaton-core/automaton/internal/platform"
	"github.com/automaton-core/automaton/internal/platform/loopback"
	"github.com/automaton-core/automaton/internal/robot"
)

func TestBuildConnection_Loopback(t *testing.T) {
	spec, err := platform.BuildConnection(config.ConnectionConfig{
		Name: "bench",
		Type: "loopback",
		Devices: []config.DeviceConfig{
			{Name: "lamp", Type: "loopback", Pin: "13"},
		},
	})
	if err != nil {
		t.Fatalf("BuildConnection() error = %v", err)
	}
	if spec.Name != "bench" {
		t.Errorf("spec.Name = %q, want %q", spec.Name, "bench")
	}
	if _, ok := spec.Adaptor.(*loopback.Adaptor); !ok {
		t.Errorf("spec.Adaptor = %T, want *loopback.Adaptor", spec.Adaptor)
	}
	if len(spec.Devices) != 1 || spec.Devices[0].Pin != "13" {
		t.Fatalf("embedded devices = %+v, want one on pin 13", spec.Devices)
	}
}

func TestBuildConnection_UnknownAdaptor(t *testing.T) {
	_, err := platform.BuildConnection(config.ConnectionConfig{Name: "x", Type: "hologram"})
	if !errors.Is(err, platform.ErrUnknownAdaptor) {
		t.Errorf("BuildConnection() error = %v, want ErrUnknownAdaptor", err)
	}
}

func TestBuildDevice_UnknownDriver(t *testing.T) {
	_, err := platform.BuildDevice(config.DeviceConfig{Name: "x", Type: "hologram"}, loopback.NewAdaptor())
	if !errors.Is(err, platform.ErrUnknownDriver) {
		t.Errorf("BuildDevice() error = %v, want ErrUnknownDriver", err)
	}
}

func TestAssemble(t *testing.T) {
	rc, err := platform.Assemble(config.RobotConfig{
		Name: "Ultron",
		Connections: []config.ConnectionConfig{
			{Name: "bench-a", Type: "loopback"},
			{Name: "bench-b", Type: "loopback"},
		},
		Devices: []config.DeviceConfig{
			{Name: "lamp", Type: "loopback"}, // defaults to bench-a
			{Name: "fan", Type: "loopback", Connection: "bench-b"},
		},
	})
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	bot, err := robot.New(rc)
	if err != nil {
		t.Fatalf("robot.New() error = %v", err)
	}
	lamp, ok := bot.Device("lamp")
	if !ok || lamp.Connection().Name() != "bench-a" {
		t.Errorf("lamp bound to %v, want bench-a", lamp)
	}
	fan, ok := bot.Device("fan")
	if !ok || fan.Connection().Name() != "bench-b" {
		t.Errorf("fan bound to %v, want bench-b", fan)
	}

	if err := bot.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := bot.Halt(context.Background()); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
}

func TestAssemble_UnknownConnectionRef(t *testing.T) {
	_, err := platform.Assemble(config.RobotConfig{
		Name: "Ultron",
		Connections: []config.ConnectionConfig{
			{Name: "bench", Type: "loopback"},
		},
		Devices: []config.DeviceConfig{
			{Name: "lamp", Type: "loopback", Connection: "ghost"},
		},
	})
	if err == nil {
		t.Fatal("Assemble() should fail for a device naming an unknown connection")
	}
}

func TestRegisterAdaptor_DuplicatePanics(t *testing.T) {
	builder := func(config.ConnectionConfig) (robot.Adaptor, error) {
		return loopback.NewAdaptor(), nil
	}
	platform.RegisterAdaptor("dup-test", builder)

	defer func() {
		if recover() == nil {
			t.Error("RegisterAdaptor() should panic on duplicate name")
		}
	}()
	platform.RegisterAdaptor("dup-test", builder)
}
