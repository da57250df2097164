package robot

import (
	"context"
	"sync"
)

// Manager is a shared registry of robots. It applies the same
// rename-on-collision rule as connection and device registration, so two
// robots requesting the same name coexist as "name" and "name-1".
type Manager struct {
	robots *robotSet
	logger Logger
}

// NewManager creates an empty robot registry.
func NewManager() *Manager {
	return &Manager{
		robots: newRobotSet(),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// AddRobot registers a robot, renaming it if its name is already taken.
// The robot handle itself is renamed so ToJSON and String reflect the
// assigned name.
func (m *Manager) AddRobot(r *Robot) *Robot {
	m.robots.mu.Lock()
	defer m.robots.mu.Unlock()

	requested := r.Name()
	final := uniqueName(requested, func(n string) bool {
		_, taken := m.robots.byName[n]
		return taken
	})
	if final != requested {
		m.logger.Warn("robot name in use, renamed",
			"requested", requested,
			"assigned", final,
		)
		r.setName(final)
	}
	m.robots.order = append(m.robots.order, r)
	m.robots.byName[final] = r
	return r
}

// Robot returns the named robot, if registered.
func (m *Manager) Robot(name string) (*Robot, bool) {
	m.robots.mu.Lock()
	defer m.robots.mu.Unlock()
	r, ok := m.robots.byName[name]
	return r, ok
}

// Robots returns all robots in registration order.
func (m *Manager) Robots() []*Robot {
	m.robots.mu.Lock()
	defer m.robots.mu.Unlock()
	out := make([]*Robot, len(m.robots.order))
	copy(out, m.robots.order)
	return out
}

// Start starts every robot in registration order. All robots are attempted;
// the first error is returned.
func (m *Manager) Start(ctx context.Context) error {
	var first error
	for _, r := range m.Robots() {
		if err := r.Start(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Halt halts every robot in registration order. All robots are attempted;
// the first error is returned.
func (m *Manager) Halt(ctx context.Context) error {
	var first error
	for _, r := range m.Robots() {
		if err := r.Halt(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// JSONManager is the serialized form of a Manager.
type JSONManager struct {
	Robots []*JSONRobot `json:"robots"`
}

// ToJSON returns the serialized form of every registered robot.
func (m *Manager) ToJSON() *JSONManager {
	robots := m.Robots()
	j := &JSONManager{Robots: make([]*JSONRobot, 0, len(robots))}
	for _, r := range robots {
		j.Robots = append(j.Robots, r.ToJSON())
	}
	return j
}

// robotSet keeps robots in registration order with name lookup.
type robotSet struct {
	mu     sync.Mutex
	order  []*Robot
	byName map[string]*Robot
}

func newRobotSet() *robotSet {
	return &robotSet{byName: make(map[string]*Robot)}
}
