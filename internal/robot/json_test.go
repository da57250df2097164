package robot

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestToJSON_Shape(t *testing.T) {
	r, err := New(Config{
		Name: "Ultron",
		Connections: []ConnectionSpec{
			{Name: "bench", Adaptor: &fakeAdaptor{}, Host: "localhost", Port: 1883},
		},
		Devices: []DeviceSpec{
			{Name: "relay", Driver: &fakeDriver{}, Pin: "13"},
		},
		Extras: map[string]any{
			"greet": func(map[string]any) (any, error) { return "hello", nil },
			"motto": "there are no strings on me",
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.AddCommand("echo", func(args map[string]any) (any, error) { return args, nil })

	j := r.ToJSON()
	if j.Name != "Ultron" {
		t.Errorf("Name = %q, want %q", j.Name, "Ultron")
	}
	if len(j.Connections) != 1 || j.Connections[0].Name != "bench" {
		t.Fatalf("Connections = %+v, want one named bench", j.Connections)
	}
	if j.Connections[0].Host != "localhost" || j.Connections[0].Port != 1883 {
		t.Errorf("connection endpoint = %s:%d, want localhost:1883",
			j.Connections[0].Host, j.Connections[0].Port)
	}
	if len(j.Devices) != 1 || j.Devices[0].Name != "relay" {
		t.Fatalf("Devices = %+v, want one named relay", j.Devices)
	}
	if j.Devices[0].Connection != "bench" {
		t.Errorf("device connection = %q, want %q", j.Devices[0].Connection, "bench")
	}
	if j.Devices[0].Pin != "13" {
		t.Errorf("device pin = %q, want %q", j.Devices[0].Pin, "13")
	}

	// Command names only: the configured callable extra plus the added
	// command, sorted, excluding non-callable keys.
	if len(j.Commands) != 2 || j.Commands[0] != "echo" || j.Commands[1] != "greet" {
		t.Errorf("Commands = %v, want [echo greet]", j.Commands)
	}
}

func TestToJSON_EmptyCollectionsMarshalAsArrays(t *testing.T) {
	r, err := New(Config{Name: "bare"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, key := range []string{`"connections":[]`, `"devices":[]`, `"commands":[]`, `"events":[]`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("marshalled robot %s missing %s", data, key)
		}
	}
}
