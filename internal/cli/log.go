package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpl-au/filetrack/internal/log"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Limit int
}

// NewLogCommand creates the log command, which queries the persistent
// audit log of tracked operations.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent audit log entries",
		Long: `Show recent entries from the persistent audit log, newest first.

Every tracked operation (open, reopen, close, remove, sweep) is recorded
with its file name, mode, call site and outcome.

Examples:
  filetrack log
  filetrack log --limit 50 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of entries")

	return cmd
}

func runLog(opts *LogOptions, cmd *cobra.Command) error {
	if err := log.Open(); err != nil {
		return WrapExitError(ExitCommandError, "open audit log", err)
	}
	defer log.Close()

	entries, err := log.Recent(opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "query audit log", err)
	}

	if opts.JSON() {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no audit entries")
		return nil
	}
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%s  %-4s %-16s %s", time.Unix(e.Start, 0).Format(time.RFC3339), status, e.Source, e.Action)
		if e.Path != "" {
			fmt.Fprintf(w, " %q", e.Path)
		}
		if e.Mode != "" {
			fmt.Fprintf(w, " mode %s", e.Mode)
		}
		if e.Site != "" {
			fmt.Fprintf(w, " at %s", e.Site)
		}
		if e.Error != "" {
			fmt.Fprintf(w, ": %s", e.Error)
		}
		fmt.Fprintln(w)
	}
	return nil
}
