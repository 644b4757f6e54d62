package collect

// Reserved record keys.
const (
	// KeyDevice names the target device a record was collected from.
	KeyDevice = "_device"
	// KeyError marks a record that carries a per-device failure message.
	KeyError = "_error"
)

// Record is one flat unit of collected state. Regular keys are
// category-specific field names; see the reserved keys above.
type Record map[string]string

// Device returns the target device name the record belongs to.
func (r Record) Device() string { return r[KeyDevice] }

// IsError reports whether the record carries a collection failure.
func (r Record) IsError() bool { return r[KeyError] != "" }

// ErrorRecord builds the inline failure record for a device.
func ErrorRecord(device string, err error) Record {
	return Record{KeyDevice: device, KeyError: err.Error()}
}
