package telemetry

import (
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// Measurement names for device telemetry points.
const (
	measurementDeviceEvent = "device_event"
	measurementSweep       = "liveness_sweep"
)

// WriteDeviceEvent records a device report as a telemetry point.
//
// The point carries the button state and battery level tagged by device,
// letting dashboards chart battery decay and alarm frequency per device.
// The write is non-blocking; failures surface on the Errors channel.
//
// Parameters:
//   - deviceID: The reporting device
//   - button: Button state at report time (true = pressed)
//   - battery: Battery percentage 0-100
//   - at: Event timestamp
func (c *Client) WriteDeviceEvent(deviceID string, button bool, battery int, at time.Time) {
	if !c.Enabled() {
		return
	}

	point := influxdb2.NewPoint(
		measurementDeviceEvent,
		map[string]string{
			"device_id": deviceID,
		},
		map[string]any{
			"button":  button,
			"battery": battery,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}

// WriteSweepResult records the outcome of an offline-detection sweep.
//
// Parameters:
//   - markedOffline: Number of devices transitioned to offline
//   - at: Sweep timestamp
func (c *Client) WriteSweepResult(markedOffline int64, at time.Time) {
	if !c.Enabled() {
		return
	}

	point := influxdb2.NewPoint(
		measurementSweep,
		nil,
		map[string]any{
			"marked_offline": markedOffline,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
}
