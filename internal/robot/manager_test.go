package robot

import (
	"context"
	"testing"
)

func TestManager_RenameOnCollision(t *testing.T) {
	m := NewManager()

	first, err := New(Config{Name: "Ultron"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	second, err := New(Config{Name: "Ultron"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	m.AddRobot(first)
	m.AddRobot(second)

	if first.Name() != "Ultron" {
		t.Errorf("first robot = %q, want %q", first.Name(), "Ultron")
	}
	if second.Name() != "Ultron-1" {
		t.Errorf("second robot = %q, want %q", second.Name(), "Ultron-1")
	}
	if got := second.String(); got != "[Robot name='Ultron-1']" {
		t.Errorf("String() = %q, want renamed tag", got)
	}

	if _, ok := m.Robot("Ultron"); !ok {
		t.Error(`Robot("Ultron") missing`)
	}
	if _, ok := m.Robot("Ultron-1"); !ok {
		t.Error(`Robot("Ultron-1") missing`)
	}
}

func TestManager_StartHaltAll(t *testing.T) {
	m := NewManager()

	adaptors := []*fakeAdaptor{{}, {}}
	for i, a := range adaptors {
		r, err := New(Config{
			Connections: []ConnectionSpec{{Name: "bench", Adaptor: a}},
		})
		if err != nil {
			t.Fatalf("New() robot %d error = %v", i, err)
		}
		m.AddRobot(r)
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	for i, r := range m.Robots() {
		if !r.Running() {
			t.Errorf("robot %d not running after manager start", i)
		}
	}

	if err := m.Halt(context.Background()); err != nil {
		t.Fatalf("Halt() error = %v", err)
	}
	for i, a := range adaptors {
		if connects, disconnects := a.counts(); connects != 1 || disconnects != 1 {
			t.Errorf("adaptor %d counts = %d/%d, want 1/1", i, connects, disconnects)
		}
	}
}

func TestManager_ToJSON(t *testing.T) {
	m := NewManager()
	r, err := New(Config{Name: "solo"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.AddRobot(r)

	j := m.ToJSON()
	if len(j.Robots) != 1 || j.Robots[0].Name != "solo" {
		t.Errorf("ToJSON() = %+v, want one robot named solo", j)
	}
}
