package spc

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// rawOptions captures recognized keys as nodes so each can be decoded and
// reported on its own. Unknown keys are dropped by the decoder.
type rawOptions struct {
	ImprovementDirection *yaml.Node `yaml:"improvementDirection"`
	RebaseDates          *yaml.Node `yaml:"rebaseDates"`
	Target               *yaml.Node `yaml:"target"`
	Trajectory           *yaml.Node `yaml:"trajectory"`
	RunLengthThreshold   *yaml.Node `yaml:"runLengthThreshold"`
	DomainFloor          *yaml.Node `yaml:"domainFloor"`
}

type rawTrajectory struct {
	Enabled *bool    `yaml:"enabled"`
	Anchor  string   `yaml:"anchor"`
	Anchors []string `yaml:"anchors"`
	Slope   *float64 `yaml:"slope"`
}

// LoadOptions reads and parses a YAML options file.
func LoadOptions(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spc: read options: %w", err)
	}
	return ParseOptions(data)
}

// ParseOptions decodes YAML options into a Config. Absent keys take their
// defaults. Every malformed value is collected into one *ConfigurationError.
//
//	improvementDirection: decrease
//	rebaseDates: [2021-04-01]
//	target: 95            # or a mapping: {2020-01-01: 90, 2021-01-01: 95}
//	trajectory: true      # or {anchor: 2021-04-01, slope: 0.5}
//	runLengthThreshold: 7
//	domainFloor: 0
func ParseOptions(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	var raw rawOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, newConfigurationError(fmt.Errorf("parse yaml: %w", err))
	}

	var err error
	if n := raw.ImprovementDirection; n != nil {
		d, derr := ParseDirection(n.Value)
		if n.Kind != yaml.ScalarNode {
			derr = nodeError(n, "improvementDirection", "must be increase or decrease")
		}
		if derr != nil {
			err = multierr.Append(err, derr)
		} else {
			cfg.ImprovementDirection = d
		}
	}
	if n := raw.RebaseDates; n != nil {
		dates, derr := decodeDates(n, "rebaseDates")
		err = multierr.Append(err, derr)
		cfg.RebaseDates = dates
	}
	if n := raw.Target; n != nil {
		t, derr := decodeTarget(n)
		err = multierr.Append(err, derr)
		cfg.Target = t
	}
	if n := raw.Trajectory; n != nil {
		t, derr := decodeTrajectory(n)
		err = multierr.Append(err, derr)
		cfg.Trajectory = t
	}
	if n := raw.RunLengthThreshold; n != nil {
		var threshold int
		if derr := n.Decode(&threshold); derr != nil {
			err = multierr.Append(err, nodeError(n, "runLengthThreshold", "must be an integer"))
		} else {
			cfg.RunLengthThreshold = threshold
		}
	}
	if n := raw.DomainFloor; n != nil {
		var floor float64
		if derr := n.Decode(&floor); derr != nil {
			err = multierr.Append(err, nodeError(n, "domainFloor", "must be a number"))
		} else {
			cfg.DomainFloor = &floor
		}
	}

	if err := newConfigurationError(multierr.Append(err, cfg.validate())); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTarget(n *yaml.Node) (Target, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return Target{}, nodeError(n, "target", "must be a number or a date mapping")
		}
		return ConstantTarget(v), nil
	case yaml.MappingNode:
		var err error
		byDate := make(map[time.Time]float64, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			d, derr := parseDate(k.Value)
			if derr != nil {
				err = multierr.Append(err, nodeError(k, "target", "key "+derr.Error()))
				continue
			}
			var f float64
			if derr := v.Decode(&f); derr != nil {
				err = multierr.Append(err, nodeError(v, "target", "value for "+k.Value+" must be a number"))
				continue
			}
			byDate[d] = f
		}
		return Target{ByDate: byDate}, err
	default:
		return Target{}, nodeError(n, "target", "must be a number or a date mapping")
	}
}

func decodeTrajectory(n *yaml.Node) (Trajectory, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := n.Decode(&enabled); err != nil {
			return Trajectory{}, nodeError(n, "trajectory", "must be a boolean or a mapping")
		}
		return Trajectory{Enabled: enabled}, nil
	case yaml.MappingNode:
		var raw rawTrajectory
		if err := n.Decode(&raw); err != nil {
			return Trajectory{}, nodeError(n, "trajectory", err.Error())
		}
		t := Trajectory{Enabled: true, Slope: raw.Slope}
		if raw.Enabled != nil {
			t.Enabled = *raw.Enabled
		}

		var err error
		names := raw.Anchors
		if raw.Anchor != "" {
			names = append([]string{raw.Anchor}, names...)
		}
		for _, s := range names {
			d, derr := parseDate(s)
			if derr != nil {
				err = multierr.Append(err, nodeError(n, "trajectory", "anchor "+derr.Error()))
				continue
			}
			t.Anchors = append(t.Anchors, d)
		}
		return t, err
	default:
		return Trajectory{}, nodeError(n, "trajectory", "must be a boolean or a mapping")
	}
}

func decodeDates(n *yaml.Node, field string) ([]time.Time, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, nodeError(n, field, "must be a list of dates")
	}
	var err error
	dates := make([]time.Time, 0, len(n.Content))
	for _, item := range n.Content {
		d, derr := parseDate(item.Value)
		if derr != nil {
			err = multierr.Append(err, nodeError(item, field, derr.Error()))
			continue
		}
		dates = append(dates, d)
	}
	return dates, err
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func nodeError(n *yaml.Node, field, msg string) error {
	return fmt.Errorf("line %d: %s %s", n.Line, field, msg)
}
