// Package robot implements the lifecycle orchestration core of Automaton.
//
// A Robot owns a set of named connections (handles around communication
// channel adaptors such as serial links, Modbus masters or MQTT sessions)
// and a set of named devices (handles around peripheral drivers bound to
// exactly one connection). The package manages:
//   - Validated construction from a typed Config
//   - Name-collision resolution for connections, devices and robots
//   - Two-phase startup: all connections in parallel, then all devices
//   - Best-effort, fault-tolerant shutdown in the reverse order
//   - A synchronous event bus and an introspectable command table
//
// # Lifecycle
//
// Start runs connections and devices as two parallel fan-out phases with a
// hard barrier between them. Each phase waits for every unit to finish; the
// first error reported becomes the phase result, and a failed start halts
// whatever partially came up before the error is surfaced. Halt reverses the
// order (devices, then connections) and never lets one failing unit block
// the others.
//
// # Collaborators
//
// Adaptor and Driver are the only contracts required from the outside:
//
//	type Adaptor interface {
//	    Connect(ctx context.Context) error
//	    Disconnect(ctx context.Context) error
//	}
//	type Driver interface {
//	    Start(ctx context.Context) error
//	    Halt(ctx context.Context) error
//	}
//
// Concrete implementations live under internal/platform and are deliberately
// out of scope here.
//
// # Usage
//
//	bot, err := robot.New(robot.Config{
//	    Name: "Ultron",
//	    Connections: []robot.ConnectionSpec{
//	        {Name: "bench", Adaptor: adaptor, Host: "localhost", Port: 1883},
//	    },
//	    Devices: []robot.DeviceSpec{
//	        {Name: "relay", Driver: driver, Pin: "13"},
//	    },
//	    Work: func(r *robot.Robot) {
//	        // main task, runs once per successful start
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	bot.On(robot.EventReady, func(payload any) { ... })
//	if err := bot.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer bot.Halt(ctx)
package robot
