package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/filetrack"
	"github.com/jpl-au/filetrack/internal/config"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Index  int
	Op     string
	Err    error  // what the tracker returned
	Want   string // the expected outcome
	Got    string // the outcome classification of Err
	Passed bool
}

// Result is the outcome of a full replay.
type Result struct {
	Scenario string
	Steps    []StepResult
	Leaks    int
	Failed   int
}

// Passed reports whether every step and the leak expectation held.
func (r *Result) Passed() bool {
	return r.Failed == 0
}

// Run replays sc against a fresh tracker rooted in dir. Diagnostics and
// the final sweep report go to w. Step failures are collected, not
// fatal: a mismatched expectation marks the result failed and the replay
// continues, so one run shows every divergence.
func Run(sc *Scenario, dir string, w io.Writer) (*Result, error) {
	tr, err := filetrack.New(
		filetrack.WithConfig(sandboxConfig()),
		filetrack.WithDiagnostics(w),
	)
	if err != nil {
		return nil, fmt.Errorf("create tracker: %w", err)
	}

	res := &Result{Scenario: sc.Name}
	handles := map[string]*os.File{}
	shutdown := false

	for i, st := range sc.Steps {
		var stepErr error
		if st.Op == OpShutdown {
			// The tracker is torn down even when the sweep itself errs,
			// and its leak count is the one the expectation checks.
			res.Leaks, stepErr = tr.Shutdown(w)
			shutdown = true
		} else {
			stepErr = runStep(tr, st, dir, w, handles)
		}

		got := classify(stepErr)
		want := st.Expect
		if want == "" {
			want = ExpectOK
		}

		sr := StepResult{
			Index:  i,
			Op:     st.Op,
			Err:    stepErr,
			Want:   want,
			Got:    got,
			Passed: got == want,
		}
		if !sr.Passed {
			res.Failed++
		}
		res.Steps = append(res.Steps, sr)
	}

	if !shutdown {
		leaks, _ := tr.Shutdown(w)
		res.Leaks = leaks
	}
	if sc.ExpectLeaks != nil && res.Leaks != *sc.ExpectLeaks {
		res.Failed++
	}
	return res, nil
}

func runStep(tr *filetrack.Tracker, st Step, dir string, w io.Writer, handles map[string]*os.File) error {
	switch st.Op {
	case OpOpen:
		f, err := tr.Open(resolve(dir, st.Name), st.Mode)
		if err == nil {
			handles[st.Handle] = f
		}
		return err

	case OpTemp:
		f, err := tr.CreateTemp()
		if err == nil {
			handles[st.Handle] = f
		}
		return err

	case OpReopen:
		h, ok := handles[st.Handle]
		if !ok {
			return fmt.Errorf("unknown handle label %q", st.Handle)
		}
		f, err := tr.Reopen(resolve(dir, st.Name), st.Mode, h)
		if err == nil {
			handles[st.Handle] = f
		}
		return err

	case OpClose:
		h, ok := handles[st.Handle]
		if !ok {
			return fmt.Errorf("unknown handle label %q", st.Handle)
		}
		return tr.Close(h)

	case OpWrite:
		h, ok := handles[st.Handle]
		if !ok {
			return fmt.Errorf("unknown handle label %q", st.Handle)
		}
		_, err := h.WriteString(st.Data)
		return err

	case OpRemove:
		return tr.Remove(resolve(dir, st.Name))

	case OpDump:
		return tr.DumpAll(w)

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

// resolve anchors a scenario-relative name in the sandbox. Empty names
// pass through so invalid-argument steps stay invalid.
func resolve(dir, name string) string {
	if name == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

// classify maps a tracker error onto the scenario outcome vocabulary.
func classify(err error) string {
	switch {
	case err == nil:
		return ExpectOK
	case errors.Is(err, filetrack.ErrStillOpen):
		return ExpectStillOpen
	case errors.Is(err, filetrack.ErrInvalidArgument):
		return ExpectInvalidArgument
	case errors.Is(err, filetrack.ErrNotFound):
		return ExpectNotFound
	case errors.Is(err, filetrack.ErrMisuse):
		return ExpectMisuse
	case errors.Is(err, filetrack.ErrOpenFailed):
		return ExpectOpenFailed
	case errors.Is(err, filetrack.ErrReopenFailed):
		return ExpectReopenFailed
	case errors.Is(err, filetrack.ErrCloseFailed):
		return ExpectCloseFailed
	case errors.Is(err, filetrack.ErrRemoveFailed):
		return ExpectRemoveFailed
	default:
		return "error"
	}
}

// sandboxConfig keeps replays self-contained: no audit persistence, no
// inherited user configuration.
func sandboxConfig() *config.Config {
	off := false
	return &config.Config{Audit: config.Audit{Enabled: &off}}
}

// Report writes a human-readable replay summary.
func Report(w io.Writer, res *Result) {
	fmt.Fprintf(w, "scenario %q: %d steps", res.Scenario, len(res.Steps))
	if res.Passed() {
		fmt.Fprintf(w, ", passed\n")
	} else {
		fmt.Fprintf(w, ", %d failed\n", res.Failed)
	}

	for _, sr := range res.Steps {
		if sr.Passed {
			continue
		}
		fmt.Fprintf(w, "  step %d (%s): want %s, got %s", sr.Index+1, sr.Op, sr.Want, sr.Got)
		if sr.Err != nil {
			fmt.Fprintf(w, ": %v", sr.Err)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "sweep: %d leaked stream(s)\n", res.Leaks)
}
