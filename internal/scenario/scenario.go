// Package scenario replays scripted sequences of file-stream operations
// against a fresh tracker. Scenarios are YAML files describing the steps
// and the outcome each step should produce, which makes lifecycle bugs
// reproducible outside the program that first hit them.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpOpen     = "open"
	OpTemp     = "temp"
	OpReopen   = "reopen"
	OpClose    = "close"
	OpRemove   = "remove"
	OpWrite    = "write"
	OpDump     = "dump"
	OpShutdown = "shutdown"
)

// Expected outcomes. The zero value means the step must succeed.
const (
	ExpectOK              = "ok"
	ExpectInvalidArgument = "invalid_argument"
	ExpectNotFound        = "not_found"
	ExpectMisuse          = "misuse"
	ExpectStillOpen       = "still_open"
	ExpectOpenFailed      = "open_failed"
	ExpectReopenFailed    = "reopen_failed"
	ExpectCloseFailed     = "close_failed"
	ExpectRemoveFailed    = "remove_failed"
)

// Scenario is a scripted operation sequence. Every scenario runs in its
// own sandbox directory; file names in steps are relative to it.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what the scenario reproduces.
	Description string `yaml:"description,omitempty"`

	// Steps is the operation sequence, run in order.
	Steps []Step `yaml:"steps"`

	// ExpectLeaks, when present, is the number of unclosed streams the
	// final sweep must report. Absent means the sweep count is not
	// checked.
	ExpectLeaks *int `yaml:"expect_leaks,omitempty"`
}

// Step is a single tracked operation.
type Step struct {
	// Op is one of open, temp, reopen, close, remove, write, dump,
	// shutdown.
	Op string `yaml:"op"`

	// Handle labels the stream an open/temp produces, or names the
	// stream a reopen/close/write operates on. Labels are scenario-local.
	Handle string `yaml:"handle,omitempty"`

	// Name is the file name, relative to the sandbox. For reopen an
	// empty name means a bare mode change.
	Name string `yaml:"name,omitempty"`

	// Mode is the C-style mode string for open and reopen.
	Mode string `yaml:"mode,omitempty"`

	// Data is written to the stream by a write step.
	Data string `yaml:"data,omitempty"`

	// Expect is the outcome the step must produce; empty means ok.
	Expect string `yaml:"expect,omitempty"`
}

var validExpect = map[string]bool{
	"":                    true,
	ExpectOK:              true,
	ExpectInvalidArgument: true,
	ExpectNotFound:        true,
	ExpectMisuse:          true,
	ExpectStillOpen:       true,
	ExpectOpenFailed:      true,
	ExpectReopenFailed:    true,
	ExpectCloseFailed:     true,
	ExpectRemoveFailed:    true,
}

// Load reads and parses a scenario file. Unknown YAML fields are
// rejected so a typo fails loudly instead of silently skipping a check.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	if !validExpect[st.Expect] {
		return fmt.Errorf("unknown expect %q", st.Expect)
	}

	switch st.Op {
	// Name and mode stay unconstrained here: scenarios deliberately feed
	// empty or malformed values to provoke invalid_argument outcomes.
	case OpOpen, OpTemp, OpReopen:
		if st.Handle == "" {
			return fmt.Errorf("%s: handle label is required", st.Op)
		}
	case OpClose, OpWrite:
		if st.Handle == "" {
			return fmt.Errorf("%s: handle label is required", st.Op)
		}
	case OpRemove:
		if st.Name == "" {
			return fmt.Errorf("remove: name is required")
		}
	case OpDump, OpShutdown:
		// no arguments
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
