package robot

import (
	"context"
	"sync"
	"time"
)

// fakeAdaptor is a test implementation of Adaptor with configurable errors,
// an optional connect delay, and call counting.
type fakeAdaptor struct {
	mu            sync.Mutex
	connects      int
	disconnects   int
	connectErr    error
	disconnectErr error
	connectDelay  time.Duration
}

func (a *fakeAdaptor) Connect(_ context.Context) error {
	a.mu.Lock()
	a.connects++
	err := a.connectErr
	delay := a.connectDelay
	a.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	return err
}

func (a *fakeAdaptor) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.disconnects++
	return a.disconnectErr
}

func (a *fakeAdaptor) counts() (connects, disconnects int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects, a.disconnects
}

// fakeDriver is a test implementation of Driver with configurable errors,
// an optional synchronous panic on halt, and call counting.
type fakeDriver struct {
	mu        sync.Mutex
	starts    int
	halts     int
	startErr  error
	haltErr   error
	haltPanic bool
}

func (d *fakeDriver) Start(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	return d.startErr
}

func (d *fakeDriver) Halt(_ context.Context) error {
	d.mu.Lock()
	d.halts++
	panics := d.haltPanic
	err := d.haltErr
	d.mu.Unlock()
	if panics {
		panic("fake driver halt panic")
	}
	return err
}

func (d *fakeDriver) counts() (starts, halts int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.halts
}
