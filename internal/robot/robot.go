package robot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Logger defines the logging interface used by the robot core.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// WorkMode selects when the work routine runs relative to the start barrier.
type WorkMode string

const (
	// WorkBarrier (the default) runs the work routine only after both start
	// phases have completed successfully.
	WorkBarrier WorkMode = "barrier"

	// WorkImmediate triggers the work routine as soon as Start is called,
	// before connections and devices have finished coming up.
	WorkImmediate WorkMode = "immediate"
)

// robotCount backs the default-name counter. Names generated from it are not
// required to be globally unique; a Manager resolves collisions on AddRobot.
var robotCount atomic.Int64

// Config is the typed construction input for a Robot.
type Config struct {
	// Name identifies the robot. Defaults to an auto-incrementing
	// process-wide value ("Robot-0", "Robot-1", ...) when empty.
	Name string

	// Connections and Devices are registered in declaration order.
	// Connection-embedded device specs are hoisted into the device set
	// before the top-level Devices are registered.
	Connections []ConnectionSpec
	Devices     []DeviceSpec

	// Work is the routine executed once per successful start. Play is an
	// accepted alias; setting both is a configuration error. When neither is
	// set a no-op logging routine is used.
	Work func(r *Robot)
	Play func(r *Robot)

	// Commands is an explicit command table. CommandsFunc is the callable
	// alternative, invoked once with the robot and expected to return a
	// mapping. Setting both, or a CommandsFunc returning nil, is a command
	// definition error.
	Commands     map[string]Command
	CommandsFunc func(r *Robot) map[string]Command

	// Events declares event names for serialization. Declaring is not
	// required for emitting.
	Events []string

	// Extras is the late-bound extension mapping: every entry becomes a
	// robot property, and callable entries additionally become commands
	// unless an explicit command table (Commands or CommandsFunc) was
	// supplied. Recognised callable shapes are Command,
	// func(map[string]any) (any, error), func(*Robot, map[string]any)
	// (any, error) and func(*Robot).
	Extras map[string]any

	// OnError, when set, is called with the *StartupError of a failed start
	// before the error event is dispatched.
	OnError func(err error)

	// WorkMode selects when the work routine runs; see WorkBarrier.
	WorkMode WorkMode

	// AutoStart schedules Start on a fresh goroutine once construction has
	// returned, so callers can attach event listeners first.
	AutoStart bool

	// Logger receives the robot's log lines. Defaults to a no-op logger.
	Logger Logger
}

// Validate checks the configuration for errors. It collects every problem
// into a single ErrConfiguration-wrapped message.
func (c Config) Validate() error {
	var errs []string

	if c.Work != nil && c.Play != nil {
		errs = append(errs, "work and play are aliases; set only one")
	}

	checkDevice := func(where string, d DeviceSpec) {
		if d.Name == "" {
			errs = append(errs, where+": device name is required")
		}
		if d.Driver == nil {
			errs = append(errs, fmt.Sprintf("%s: device %q has no driver", where, d.Name))
		}
	}

	for i, conn := range c.Connections {
		where := fmt.Sprintf("connections[%d]", i)
		if conn.Name == "" {
			errs = append(errs, where+": connection name is required")
		}
		if conn.Adaptor == nil {
			errs = append(errs, fmt.Sprintf("%s: connection %q has no adaptor", where, conn.Name))
		}
		for _, dev := range conn.Devices {
			checkDevice(where, dev)
		}
	}

	for i, dev := range c.Devices {
		checkDevice(fmt.Sprintf("devices[%d]", i), dev)
	}

	switch c.WorkMode {
	case "", WorkBarrier, WorkImmediate:
	default:
		errs = append(errs, fmt.Sprintf("unknown work mode %q", c.WorkMode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrConfiguration, strings.Join(errs, "; "))
	}
	return nil
}

// Robot composes connections, devices, a command table and an event bus into
// one controllable unit.
type Robot struct {
	mu             sync.Mutex
	name           string
	running        bool
	starting       bool
	connections    *connectionSet
	devices        *deviceSet
	commands       map[string]Command
	declaredEvents []string
	props          map[string]any

	work     func(r *Robot)
	workMode WorkMode
	onError  func(err error)

	events *eventBus
	logger Logger
}

// New constructs a Robot from cfg. The configuration is validated before any
// other side effect; on a validation failure nothing has been registered.
func New(cfg Config) (*Robot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Commands != nil && cfg.CommandsFunc != nil {
		return nil, fmt.Errorf("%w: both Commands and CommandsFunc supplied", ErrCommandDefinition)
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("Robot-%d", robotCount.Add(1)-1)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	r := &Robot{
		name:        name,
		connections: newConnectionSet(),
		devices:     newDeviceSet(),
		commands:    make(map[string]Command),
		props:       make(map[string]any),
		workMode:    cfg.WorkMode,
		onError:     cfg.OnError,
		events:      newEventBus(),
		logger:      logger,
	}
	if r.workMode == "" {
		r.workMode = WorkBarrier
	}

	r.work = cfg.Work
	if r.work == nil {
		r.work = cfg.Play
	}
	if r.work == nil {
		r.work = func(r *Robot) {
			r.logger.Info(r.prefix("no work routine defined"))
		}
	}

	for _, spec := range cfg.Connections {
		if _, err := r.AddConnection(spec); err != nil {
			return nil, err
		}
	}
	for _, spec := range cfg.Devices {
		if _, err := r.AddDevice(spec); err != nil {
			return nil, err
		}
	}

	explicitCommands := cfg.Commands != nil || cfg.CommandsFunc != nil
	switch {
	case cfg.Commands != nil:
		for cmdName, cmd := range cfg.Commands {
			r.commands[cmdName] = cmd
		}
	case cfg.CommandsFunc != nil:
		table := cfg.CommandsFunc(r)
		if table == nil {
			return nil, fmt.Errorf("%w: CommandsFunc returned no mapping", ErrCommandDefinition)
		}
		for cmdName, cmd := range table {
			r.commands[cmdName] = cmd
		}
	}

	for key, value := range cfg.Extras {
		r.props[key] = value
		if cmd, ok := r.bindExtra(value); ok && !explicitCommands {
			r.commands[key] = cmd
		}
	}

	for _, event := range cfg.Events {
		r.AddEvent(event)
	}

	if cfg.AutoStart {
		// Deferred to a fresh goroutine so the caller can attach event
		// listeners before the start sequence begins.
		go func() {
			if err := r.Start(context.Background()); err != nil {
				r.logger.Error(r.prefix("auto-start failed"), "error", err)
			}
		}()
	}

	return r, nil
}

// Name returns the robot's name.
func (r *Robot) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// setName is used by a Manager when resolving robot name collisions.
func (r *Robot) setName(name string) {
	r.mu.Lock()
	r.name = name
	r.mu.Unlock()
}

// Running reports whether the last Start completed its success path without
// a Halt since.
func (r *Robot) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// SetLogger sets the logger for the robot.
func (r *Robot) SetLogger(logger Logger) {
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// AddConnection registers a connection, resolving name collisions by
// suffixing, and hoists any embedded device specs bound to the connection's
// final name. The returned error can only originate from embedded devices.
func (r *Robot) AddConnection(spec ConnectionSpec) (*Connection, error) {
	r.mu.Lock()
	final := uniqueName(spec.Name, func(n string) bool {
		_, taken := r.connections.get(n)
		return taken
	})
	if final != spec.Name {
		r.logger.Warn(r.prefixLocked("connection name in use, renamed"),
			"requested", spec.Name,
			"assigned", final,
		)
	}
	conn := &Connection{
		name:    final,
		host:    spec.Host,
		port:    spec.Port,
		adaptor: spec.Adaptor,
	}
	r.connections.add(conn)
	r.mu.Unlock()

	for _, dev := range spec.Devices {
		dev.Connection = final
		if _, err := r.AddDevice(dev); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// AddDevice registers a device, resolving name collisions by suffixing and
// its connection reference by name. A device without a connection name binds
// to the earliest-registered connection, if one exists; a name that matches
// no connection yields ErrConnectionRef.
func (r *Robot) AddDevice(spec DeviceSpec) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var conn *Connection
	if spec.Connection != "" {
		c, ok := r.connections.get(spec.Connection)
		if !ok {
			return nil, fmt.Errorf("device %q: %w: %q", spec.Name, ErrConnectionRef, spec.Connection)
		}
		conn = c
	} else if c, ok := r.connections.first(); ok {
		conn = c
	}

	final := uniqueName(spec.Name, func(n string) bool {
		_, taken := r.devices.get(n)
		return taken
	})
	if final != spec.Name {
		r.logger.Warn(r.prefixLocked("device name in use, renamed"),
			"requested", spec.Name,
			"assigned", final,
		)
	}

	dev := &Device{
		name:       final,
		pin:        spec.Pin,
		driver:     spec.Driver,
		connection: conn,
	}
	r.devices.add(dev)
	return dev, nil
}

// Connection returns the named connection, if registered.
func (r *Robot) Connection(name string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connections.get(name)
}

// Connections returns all connections in registration order.
func (r *Robot) Connections() []*Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connections.all()
}

// Device returns the named device, if registered.
func (r *Robot) Device(name string) (*Device, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices.get(name)
}

// Devices returns all devices in registration order.
func (r *Robot) Devices() []*Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.devices.all()
}

// Prop returns the named configuration property merged from Extras.
func (r *Robot) Prop(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.props[name]
	return v, ok
}

// prefix formats a log message in the robot's line format.
func (r *Robot) prefix(msg string) string {
	return fmt.Sprintf("[%s] - %s", r.Name(), msg)
}

// prefixLocked is prefix for callers already holding r.mu.
func (r *Robot) prefixLocked(msg string) string {
	return fmt.Sprintf("[%s] - %s", r.name, msg)
}

// uniqueName returns name if free, otherwise the first free candidate from
// name-1, name-2, ... Once any suffix has been claimed for a base the base
// itself remains taken, so the original name is never handed out again.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", name, i)
		if !taken(candidate) {
			return candidate
		}
	}
}
