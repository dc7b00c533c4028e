// Package telemetry provides an optional InfluxDB sink for device metrics.
//
// SQLite remains the source of truth for device state and the event
// ledger; InfluxDB only receives derived time-series points (battery
// levels, button activations, sweep results) for dashboarding. Because
// the sink is advisory, all writes are non-blocking and a disabled or
// unreachable InfluxDB never affects request handling.
//
// The client is safe for concurrent use.
package telemetry
