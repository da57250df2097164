package robot

import (
	"encoding/json"
	"fmt"
	"sort"
)

// JSONConnection is the serialized form of a Connection. Connections
// serialize independently, without coordination through their robot.
type JSONConnection struct {
	Name    string `json:"name"`
	Adaptor string `json:"adaptor"`
	Host    string `json:"host,omitempty"`
	Port    int    `json:"port,omitempty"`
}

// JSONDevice is the serialized form of a Device.
type JSONDevice struct {
	Name       string `json:"name"`
	Driver     string `json:"driver"`
	Connection string `json:"connection,omitempty"`
	Pin        string `json:"pin,omitempty"`
}

// JSONRobot is the serialized form of a Robot. Commands and events are
// enumerated by name only and are always present, even when empty.
type JSONRobot struct {
	Name        string            `json:"name"`
	Connections []*JSONConnection `json:"connections"`
	Devices     []*JSONDevice     `json:"devices"`
	Commands    []string          `json:"commands"`
	Events      []string          `json:"events"`
}

// ToJSON returns the connection's serialized form.
func (c *Connection) ToJSON() *JSONConnection {
	return &JSONConnection{
		Name:    c.name,
		Adaptor: fmt.Sprintf("%T", c.adaptor),
		Host:    c.host,
		Port:    c.port,
	}
}

// ToJSON returns the device's serialized form.
func (d *Device) ToJSON() *JSONDevice {
	j := &JSONDevice{
		Name:   d.name,
		Driver: fmt.Sprintf("%T", d.driver),
		Pin:    d.pin,
	}
	if d.connection != nil {
		j.Connection = d.connection.name
	}
	return j
}

// ToJSON returns the robot's serialized form. Command names are sorted for
// stable output.
func (r *Robot) ToJSON() *JSONRobot {
	r.mu.Lock()
	conns := r.connections.all()
	devs := r.devices.all()
	commands := make([]string, 0, len(r.commands))
	for name := range r.commands {
		commands = append(commands, name)
	}
	events := make([]string, len(r.declaredEvents))
	copy(events, r.declaredEvents)
	name := r.name
	r.mu.Unlock()

	sort.Strings(commands)

	j := &JSONRobot{
		Name:        name,
		Connections: make([]*JSONConnection, 0, len(conns)),
		Devices:     make([]*JSONDevice, 0, len(devs)),
		Commands:    commands,
		Events:      events,
	}
	for _, c := range conns {
		j.Connections = append(j.Connections, c.ToJSON())
	}
	for _, d := range devs {
		j.Devices = append(j.Devices, d.ToJSON())
	}
	return j
}

// MarshalJSON implements json.Marshaler using the robot's ToJSON form.
func (r *Robot) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToJSON())
}

// String returns the robot's human-readable tag. The literal format is kept
// for compatibility with existing tooling expectations.
func (r *Robot) String() string {
	return fmt.Sprintf("[Robot name='%s']", r.Name())
}
