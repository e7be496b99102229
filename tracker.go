// tracker.go defines the Tracker, the process-scoped registry context.
//
// Separated from the operation wrappers (open.go, close.go, remove.go,
// dump.go) to isolate construction, locking discipline and the
// last-failure diagnostic channel from the lifecycle transitions
// themselves.

package filetrack

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jpl-au/filetrack/internal/config"
	"github.com/jpl-au/filetrack/internal/log"
	"github.com/jpl-au/filetrack/internal/metrics"
	"github.com/jpl-au/filetrack/internal/registry"
)

// Tracker owns one tracking registry and the single global lock that
// serializes every operation on it, the real platform I/O included. This
// trades throughput for a total ordering of lifecycle events; the target
// is debug instrumentation, not a production hot path.
type Tracker struct {
	mu  sync.Mutex
	reg *registry.Registry // lazily created on first use, under mu
	cfg *config.Config

	diag io.Writer // human-readable failure stream; nil = off
	met  *metrics.Set

	retain bool

	lastOp  string
	lastErr error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithConfig supplies an explicit configuration instead of loading
// .filetrack/config.yaml.
func WithConfig(cfg *config.Config) Option {
	return func(t *Tracker) { t.cfg = cfg }
}

// WithRetain overrides the configured retain mode. Retaining keeps closed
// entries for double-close and leak diagnostics; disabling bounds memory
// in long-running instrumented processes.
func WithRetain(retain bool) Option {
	return func(t *Tracker) { t.retain = retain }
}

// WithDiagnostics redirects the human-readable failure stream. Pass nil
// to suppress it entirely.
func WithDiagnostics(w io.Writer) Option {
	return func(t *Tracker) { t.diag = w }
}

// WithMetrics attaches a lifecycle counter set.
func WithMetrics(m *metrics.Set) Option {
	return func(t *Tracker) { t.met = m }
}

// New creates a Tracker. Configuration is loaded from the usual config
// files unless WithConfig is given; the backing registry itself is created
// lazily on first use.
func New(opts ...Option) (*Tracker, error) {
	t := &Tracker{diag: os.Stderr}

	// Apply WithConfig before deriving defaults from configuration.
	for _, opt := range opts {
		opt(t)
	}
	if t.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		t.cfg = cfg
	}

	t.retain = t.cfg.RetainClosed()
	if t.cfg.DiagnosticsOff() {
		t.diag = nil
	}

	// Re-apply options so WithRetain/WithDiagnostics win over config.
	for _, opt := range opts {
		opt(t)
	}

	if t.cfg.AuditEnabled() {
		if err := log.Open(); err != nil {
			fmt.Fprintf(os.Stderr, "filetrack: audit log unavailable: %v\n", err)
		}
	}
	return t, nil
}

var (
	defaultMu      sync.Mutex
	defaultTracker *Tracker
)

// Default returns the process-wide tracker, creating it on first use.
// It exists for call sites that cannot thread a Tracker through; prefer an
// explicit Tracker where possible. Initialisation failure here is fatal:
// the tracker cannot provide any of its guarantees without its state.
func Default() *Tracker {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultTracker == nil {
		t, err := New()
		if err != nil {
			panic("filetrack: default tracker initialisation failed: " + err.Error())
		}
		defaultTracker = t
	}
	return defaultTracker
}

// ensureRegistry lazily creates the backing registry. Callers must hold
// t.mu; the double check through the lock makes concurrent first use
// create exactly one registry.
func (t *Tracker) ensureRegistry() error {
	if t.reg != nil {
		return nil
	}
	reg, err := registry.New(t.retain)
	if err != nil {
		return err
	}
	t.reg = reg
	return nil
}

// record notes a failing operation in the diagnostic channel. Each public
// operation clears the channel on entry (clearFailure), so after a fully
// successful call it reads neutral, while a tracking failure behind a
// successful platform call stays visible. Callers must hold t.mu.
func (t *Tracker) record(op string, err error) {
	if err != nil {
		t.lastOp = op
		t.lastErr = err
	}
}

func (t *Tracker) clearFailure() {
	t.lastOp = ""
	t.lastErr = nil
}

// LastFailure returns the most recent failing operation name and its
// error, or ("", nil) if the last operation succeeded. It is a diagnostic
// echo for call sites that cannot change their signature; the returned
// error of each call is the primary channel.
func (t *Tracker) LastFailure() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastOp, t.lastErr
}

// isStd reports whether f is one of the process standard streams, which
// are exempt from all tracking.
func isStd(f *os.File) bool {
	return f == os.Stdin || f == os.Stdout || f == os.Stderr
}
