package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpl-au/filetrack/internal/scenario"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Dir string // sandbox directory; empty means a fresh temp dir
}

// replayStep is the JSON shape of one step outcome.
type replayStep struct {
	Step   int    `json:"step"`
	Op     string `json:"op"`
	Want   string `json:"want"`
	Got    string `json:"got"`
	Error  string `json:"error,omitempty"`
	Passed bool   `json:"passed"`
}

// replayResult is the JSON shape of a full replay.
type replayResult struct {
	Scenario string       `json:"scenario"`
	Steps    []replayStep `json:"steps"`
	Leaks    int          `json:"leaks"`
	Passed   bool         `json:"passed"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a scripted stream-operation scenario",
		Long: `Replay a YAML scenario of file-stream operations against a fresh
tracker in a sandbox directory, checking each step's outcome.

Exit codes:
  0 - every step matched its expected outcome
  1 - at least one step diverged
  2 - the scenario could not be loaded or run

Examples:
  filetrack replay testdata/deletion_guard.yaml
  filetrack replay bug.yaml --dir ./sandbox --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "sandbox directory (default: a fresh temp dir)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "load scenario", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir, err = os.MkdirTemp("", "filetrack-replay-*")
		if err != nil {
			return WrapExitError(ExitCommandError, "create sandbox", err)
		}
		defer os.RemoveAll(dir)
	}

	diag := cmd.ErrOrStderr()
	if !opts.Verbose {
		diag = nullWriter{}
	}

	res, err := scenario.Run(sc, dir, diag)
	if err != nil {
		return WrapExitError(ExitCommandError, "run scenario", err)
	}

	if opts.JSON() {
		out := replayResult{
			Scenario: res.Scenario,
			Leaks:    res.Leaks,
			Passed:   res.Passed(),
		}
		for _, sr := range res.Steps {
			s := replayStep{
				Step:   sr.Index + 1,
				Op:     sr.Op,
				Want:   sr.Want,
				Got:    sr.Got,
				Passed: sr.Passed,
			}
			if sr.Err != nil {
				s.Error = sr.Err.Error()
			}
			out.Steps = append(out.Steps, s)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		scenario.Report(cmd.OutOrStdout(), res)
	}

	if !res.Passed() {
		return NewExitError(ExitReplayFailed, fmt.Sprintf("scenario %q diverged", res.Scenario))
	}
	return nil
}

// nullWriter discards diagnostics when not in verbose mode.
type nullWriter struct{}

func (nullWriter) Write(p []byte) (int, error) { return len(p), nil }
