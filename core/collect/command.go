package collect

import (
	"context"
	"fmt"
)

// CommandCollector collects one category by running a platform-specific show
// command on every SSH target and parsing the raw output through a template
// parser. It is the adapter that turns an external TemplateParser into a
// registrable Collector for platforms the SNMP collectors cannot reach.
type CommandCollector struct {
	name      string
	commands  map[string]string
	transport CommandTransport
	parser    TemplateParser
	workers   int
}

// NewCommandCollector builds the collector. The commands map keys platform
// slugs to the show command to run there. A nil transport uses the shipped
// SSH transport.
func NewCommandCollector(name string, commands map[string]string, parser TemplateParser, transport CommandTransport, cfg Config) *CommandCollector {
	if transport == nil {
		transport = NewSSHTransport(cfg)
	}
	return &CommandCollector{
		name:      name,
		commands:  commands,
		transport: transport,
		parser:    parser,
		workers:   cfg.Workers,
	}
}

func (c *CommandCollector) Name() string { return c.name }

// Collect runs the platform command on every SSH target and parses the
// output. Targets whose platform has no command fail individually; records
// that come back without a device key are stamped with the target name.
func (c *CommandCollector) Collect(ctx context.Context, targets []DeviceTarget, opts Options) ([]Record, error) {
	targets = transportTargets(targets, TransportSSH)
	records := fanOut(ctx, targets, opts.Int("workers", c.workers), func(ctx context.Context, target DeviceTarget) ([]Record, error) {
		command := opts.String("command", c.commands[target.Platform])
		if command == "" {
			return nil, fmt.Errorf("no %s command for platform %q", c.name, target.Platform)
		}
		output, err := c.transport.Run(ctx, target, command)
		if err != nil {
			return nil, err
		}
		parsed, err := c.parser.Parse(target.Platform, c.name, output)
		if err != nil {
			return nil, fmt.Errorf("parse %s output: %w", c.name, err)
		}
		for _, rec := range parsed {
			if rec[KeyDevice] == "" {
				rec[KeyDevice] = target.Name
			}
		}
		return parsed, nil
	})
	return records, nil
}
