// Package telemetry ships robot lifecycle metrics to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes, and health monitoring.
//
// # Measurements
//
//   - lifecycle: one point per ready/error event, tagged by robot and event
//   - start_duration: how long each Start took, tagged by outcome
//   - fleet: how many robots the manager holds
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.Telemetry)
//	if errors.Is(err, telemetry.ErrDisabled) {
//	    // run without telemetry
//	}
//	defer client.Close()
//	client.Attach(bot)
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered via the
// SetOnError callback. Connection and health check errors are returned
// directly.
package telemetry
