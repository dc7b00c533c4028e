package device

import "time"

// Default state for a freshly registered device: no alarm, full battery,
// considered online until the first sweep proves otherwise.
const (
	DefaultButton  = 0
	DefaultBattery = 100
)

// Button state values. Resolved and normal are the same state: resolving
// an alarm returns the button flag to 0.
const (
	ButtonNormal  = 0
	ButtonPressed = 1
)

// maxBattery is the upper bound for a reported battery percentage.
const maxBattery = 100

// Device represents a registered panic-button unit and its latest
// reported state.
//
// LastEvent is nil until the device reports for the first time. The
// online flag is eventually consistent: it is only cleared by the
// liveness sweep, so a silent device stays "online" until the next
// sweep runs.
type Device struct {
	ID        string     `json:"id"`
	Button    int        `json:"button"`
	Battery   int        `json:"battery"`
	LastEvent *time.Time `json:"last_event"`
	Online    bool       `json:"online"`
	Location  string     `json:"location"`
	CreatedAt time.Time  `json:"created_at"`
}

// Alarming returns true if the device's button flag indicates an
// unresolved alarm.
func (d *Device) Alarming() bool {
	return d.Button == ButtonPressed
}

// Event is an immutable record of a single button/battery report.
// Events are append-only and may outlive the device that produced them.
type Event struct {
	ID        int64     `json:"id"`
	DeviceID  string    `json:"device_id"`
	Button    int       `json:"button"`
	Battery   int       `json:"battery"`
	CreatedAt time.Time `json:"created_at"`
}

// validButton reports whether a button value is one of the two valid states.
func validButton(button int) bool {
	return button == ButtonNormal || button == ButtonPressed
}

// validBattery reports whether a battery percentage is in range.
func validBattery(battery int) bool {
	return battery >= 0 && battery <= maxBattery
}
