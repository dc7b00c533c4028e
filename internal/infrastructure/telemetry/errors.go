package telemetry

import "errors"

var (
	// ErrDisabled is returned when telemetry operations are attempted
	// while the telemetry sink is disabled in configuration.
	ErrDisabled = errors.New("telemetry: disabled")

	// ErrNotConnected is returned when a write is attempted before a
	// successful Connect.
	ErrNotConnected = errors.New("telemetry: not connected")

	// ErrConnectionFailed is returned when the InfluxDB health check fails.
	ErrConnectionFailed = errors.New("telemetry: connection failed")
)
