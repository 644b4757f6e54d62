package collect

import "context"

// CommandTransport runs a single command on a device and returns its raw
// output. Implementations own connection setup and teardown per call.
type CommandTransport interface {
	Run(ctx context.Context, target DeviceTarget, command string) (string, error)
}

// TemplateParser turns raw command output into records. Template sets are
// platform-specific and live outside this repository; the collect layer only
// defines the boundary.
type TemplateParser interface {
	// Parse parses output produced on the given platform for the given
	// collection target name.
	Parse(platform, target, output string) ([]Record, error)
}
