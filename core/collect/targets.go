package collect

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport values a target may declare.
const (
	TransportSNMP = "snmp"
	TransportSSH  = "ssh"
)

// DeviceTarget describes one device to collect from, including how to reach
// it and the registry labels attached to everything collected from it.
type DeviceTarget struct {
	// Name is the device hostname as it should appear in the registry.
	Name string `yaml:"name"`
	// Host is the address to connect to; defaults to Name.
	Host string `yaml:"host,omitempty"`
	// Platform is the registry platform slug, e.g. "cisco-ios".
	Platform string `yaml:"platform,omitempty"`
	// Site, Role and Tenant label collected entities for the registry.
	Site   string `yaml:"site,omitempty"`
	Role   string `yaml:"role,omitempty"`
	Tenant string `yaml:"tenant,omitempty"`
	// Transport selects how to reach the device: "snmp" (default) or "ssh".
	Transport string `yaml:"transport,omitempty"`
	// Community overrides the configured SNMP community for this target.
	Community string `yaml:"community,omitempty"`
	// Port overrides the transport's default port.
	Port int `yaml:"port,omitempty"`
	// Username and Password authenticate the SSH transport.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Address returns the host to connect to, falling back to the name.
func (t DeviceTarget) Address() string {
	if t.Host != "" {
		return t.Host
	}
	return t.Name
}

// transportTargets returns the targets reachable over the given transport.
// Targets that declare nothing default to SNMP.
func transportTargets(targets []DeviceTarget, transport string) []DeviceTarget {
	out := make([]DeviceTarget, 0, len(targets))
	for _, t := range targets {
		declared := strings.ToLower(t.Transport)
		if declared == "" {
			declared = TransportSNMP
		}
		if declared == transport {
			out = append(out, t)
		}
	}
	return out
}

type targetsFile struct {
	Targets []DeviceTarget `yaml:"targets"`
}

// LoadTargets reads device targets from a YAML file.
func LoadTargets(path string) ([]DeviceTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}
	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse targets file: %w", err)
	}
	for i, t := range file.Targets {
		if t.Name == "" {
			return nil, fmt.Errorf("target %d has no name", i)
		}
	}
	return file.Targets, nil
}

// FilterTargets returns the targets whose names appear in the given list.
// An empty list keeps everything. Unknown names are reported as an error so
// a typo does not silently shrink a run.
func FilterTargets(targets []DeviceTarget, names []string) ([]DeviceTarget, error) {
	if len(names) == 0 {
		return targets, nil
	}
	byName := make(map[string]DeviceTarget, len(targets))
	for _, t := range targets {
		byName[strings.ToLower(t.Name)] = t
	}
	out := make([]DeviceTarget, 0, len(names))
	for _, name := range names {
		t, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		out = append(out, t)
	}
	return out, nil
}
