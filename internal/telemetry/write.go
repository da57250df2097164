package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/automaton-core/automaton/internal/robot"
)

// WriteLifecycleEvent records a robot lifecycle event (ready, error).
//
// The write is non-blocking; data is batched and sent asynchronously.
func (c *Client) WriteLifecycleEvent(robotName string, event string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"lifecycle",
		map[string]string{
			"robot": robotName,
			"event": event,
		},
		map[string]interface{}{
			"count": 1,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteStartDuration records how long a robot's Start took, in seconds.
// Recorded regardless of outcome; the success tag separates the two.
func (c *Client) WriteStartDuration(robotName string, seconds float64, success bool) {
	if !c.IsConnected() {
		return
	}

	outcome := "ok"
	if !success {
		outcome = "failed"
	}

	point := write.NewPoint(
		"start_duration",
		map[string]string{
			"robot":   robotName,
			"outcome": outcome,
		},
		map[string]interface{}{
			"seconds": seconds,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteFleetSize records the number of robots a manager currently holds.
func (c *Client) WriteFleetSize(count int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"fleet",
		nil,
		map[string]interface{}{
			"robots": count,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// Attach subscribes the client to a robot's lifecycle events so that every
// ready and error emission becomes a point. Writes are fire-and-forget; a
// telemetry outage never disturbs the robot.
func (c *Client) Attach(bot *robot.Robot) {
	bot.On(robot.EventReady, func(any) {
		c.WriteLifecycleEvent(bot.Name(), robot.EventReady)
	})
	bot.On(robot.EventError, func(any) {
		c.WriteLifecycleEvent(bot.Name(), robot.EventError)
	})
}
