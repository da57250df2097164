package robot

import (
	"context"
	"sync"
	"time"
)

// Start phase names, as reported in StartupError and phase logs.
const (
	PhaseConnections = "connections"
	PhaseDevices     = "devices"
)

// Start brings the robot up: all connections in parallel, a barrier, then
// all devices in parallel. Calling Start on a running robot, or while
// another Start is still in flight, is a no-op: units are invoked, the
// ready event is dispatched and the work routine runs at most once per
// successful start.
//
// Each phase invokes every unit and waits for all of them to call back; the
// first error becomes the phase result but never cancels the other units.
// On any phase error the robot halts whatever partially started, invokes the
// configured OnError handler, dispatches the error event and returns a
// *StartupError. On success the ready event is dispatched, the work routine
// runs and the robot is marked running.
func (r *Robot) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running || r.starting {
		r.mu.Unlock()
		return nil
	}
	r.starting = true
	conns := r.connections.all()
	devs := r.devices.all()
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.starting = false
		r.mu.Unlock()
	}()

	r.logger.Info(r.prefix("starting"),
		"connections", len(conns),
		"devices", len(devs),
	)

	if r.workMode == WorkImmediate {
		// Immediate mode runs the work routine before the connection and
		// device phases have completed.
		r.work(r)
	}

	began := time.Now()
	if err := r.connectPhase(ctx, conns); err != nil {
		return r.failStart(ctx, err)
	}
	if err := r.devicePhase(ctx, devs); err != nil {
		return r.failStart(ctx, err)
	}
	r.logger.Debug(r.prefix("start phases complete"), "duration", time.Since(began))

	r.events.emit(EventReady, r)
	if r.workMode == WorkBarrier {
		r.work(r)
	}

	r.mu.Lock()
	r.running = true
	r.mu.Unlock()

	r.logger.Info(r.prefix("running"))
	return nil
}

// connectPhase runs every connection's connect concurrently and waits for
// the full fan-out set.
func (r *Robot) connectPhase(ctx context.Context, conns []*Connection) error {
	err := runUnits(ctx, conns, func(ctx context.Context, c *Connection) error {
		return c.connect(ctx)
	})
	if err != nil {
		return &StartupError{Phase: PhaseConnections, Err: err}
	}
	return nil
}

// devicePhase runs every device's start concurrently and waits for the full
// fan-out set. It must only be entered after connectPhase's barrier.
func (r *Robot) devicePhase(ctx context.Context, devs []*Device) error {
	err := runUnits(ctx, devs, func(ctx context.Context, d *Device) error {
		return d.start(ctx)
	})
	if err != nil {
		return &StartupError{Phase: PhaseDevices, Err: err}
	}
	return nil
}

// failStart is the shared error path for a failed start phase: log, halt
// whatever partially started, then surface the error via the local handler,
// the error event, and the returned error, in that order.
func (r *Robot) failStart(ctx context.Context, err error) error {
	r.logger.Error(r.prefix("start failed, halting"), "error", err)
	r.shutdown(ctx)
	if r.onError != nil {
		r.onError(err)
	}
	r.events.emit(EventError, err)
	return err
}

// Halt brings the robot down: all device halts in parallel, a barrier, then
// all connection disconnects in parallel. Calling Halt on a robot that is
// not running is an immediate no-op.
//
// Halt is best-effort by design: the robot is marked not running as soon as
// the halt begins, and every unit is attempted even when earlier units in
// the same phase fail or panic. Per-unit failures are logged and swallowed.
func (r *Robot) Halt(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	r.logger.Info(r.prefix("halting"))
	r.shutdown(ctx)
	r.logger.Info(r.prefix("halted"))
	return nil
}

// shutdown runs the halt sequence without consulting the running flag, so
// the same path serves Halt and the failed-start cleanup. A panic escaping
// the join machinery itself is recovered and logged as a top-level halt
// failure; the robot stays marked not running either way.
func (r *Robot) shutdown(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(r.prefix("halt failed"), "panic", rec)
		}
	}()

	r.mu.Lock()
	devs := r.devices.all()
	conns := r.connections.all()
	r.mu.Unlock()

	// Unit outcomes are collected and logged, never propagated: one faulty
	// device must not block the rest of the shutdown.
	_ = runUnits(ctx, devs, func(ctx context.Context, d *Device) error {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Warn(r.prefix("device halt panicked"), "device", d.Name(), "panic", rec)
			}
		}()
		if err := d.halt(ctx); err != nil {
			r.logger.Warn(r.prefix("device halt failed"), "device", d.Name(), "error", err)
		}
		return nil
	})

	_ = runUnits(ctx, conns, func(ctx context.Context, c *Connection) error {
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Warn(r.prefix("disconnect panicked"), "connection", c.Name(), "panic", rec)
			}
		}()
		if err := c.disconnect(ctx); err != nil {
			r.logger.Warn(r.prefix("disconnect failed"), "connection", c.Name(), "error", err)
		}
		return nil
	})
}

// runUnits launches one goroutine per item, in slice order, and waits for
// the whole fan-out set. The first error reported wins; the remaining units
// still run to completion. There is no cancellation beyond what the units
// themselves honour via ctx.
func runUnits[T any](ctx context.Context, items []T, run func(context.Context, T) error) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var first error

	for _, item := range items {
		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			if err := run(ctx, item); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		}(item)
	}

	wg.Wait()
	return first
}
