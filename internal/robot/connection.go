package robot

import (
	"context"
	"fmt"
	"sync"
)

// Adaptor is the contract a communication-channel implementation must
// satisfy. Connect and Disconnect are expected to be blocking and to honour
// context cancellation; the orchestration core imposes no timeout of its own.
type Adaptor interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// ConnectionSpec declares a connection to register on a robot.
type ConnectionSpec struct {
	// Name identifies the connection within its robot. Required.
	Name string

	// Host and Port identify the remote endpoint, for logging and
	// serialization only. Optional.
	Host string
	Port int

	// Adaptor is the underlying channel implementation. Required.
	Adaptor Adaptor

	// Devices declared inline are hoisted into the robot's device set during
	// registration and bound to this connection under its final (possibly
	// renamed) name.
	Devices []DeviceSpec
}

// Connection is the robot-owned handle around one Adaptor. A connection is
// owned by exactly one robot; multiple devices may share it.
type Connection struct {
	name    string
	host    string
	port    int
	adaptor Adaptor

	mu        sync.Mutex
	connected bool
}

// Name returns the connection's resolved (unique within the robot) name.
func (c *Connection) Name() string { return c.name }

// Host returns the configured host, or "" if none was given.
func (c *Connection) Host() string { return c.host }

// Port returns the configured port, or 0 if none was given.
func (c *Connection) Port() int { return c.port }

// Adaptor returns the wrapped adaptor instance.
func (c *Connection) Adaptor() Adaptor { return c.adaptor }

// Connected reports whether the connection has been marked connected.
//
// The flag is set optimistically when Connect is invoked, not when the
// adaptor confirms completion. Callers needing "confirmed live" semantics
// must ask the adaptor itself.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Connection) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

// connect is the phase-1 start unit. An already-connected connection
// succeeds immediately without touching its adaptor.
func (c *Connection) connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}
	c.setConnected(true)
	if err := c.adaptor.Connect(ctx); err != nil {
		return fmt.Errorf("connection %q: connect: %w", c.name, err)
	}
	return nil
}

// disconnect is the phase-2 halt unit. The connected flag is cleared at
// invocation time regardless of the adaptor's outcome.
func (c *Connection) disconnect(ctx context.Context) error {
	c.setConnected(false)
	if err := c.adaptor.Disconnect(ctx); err != nil {
		return fmt.Errorf("connection %q: disconnect: %w", c.name, err)
	}
	return nil
}

// connectionSet keeps connections in registration order with name lookup.
// It is mutated only under the owning robot's lock.
type connectionSet struct {
	order  []*Connection
	byName map[string]*Connection
}

func newConnectionSet() *connectionSet {
	return &connectionSet{byName: make(map[string]*Connection)}
}

func (s *connectionSet) add(c *Connection) {
	s.order = append(s.order, c)
	s.byName[c.name] = c
}

func (s *connectionSet) get(name string) (*Connection, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// first returns the earliest-registered connection, if any.
func (s *connectionSet) first() (*Connection, bool) {
	if len(s.order) == 0 {
		return nil, false
	}
	return s.order[0], true
}

// all returns the connections in registration order. The slice is a copy;
// the handles are shared.
func (s *connectionSet) all() []*Connection {
	out := make([]*Connection, len(s.order))
	copy(out, s.order)
	return out
}
