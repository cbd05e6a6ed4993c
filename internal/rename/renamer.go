// Package rename correlates drawing and traveler files with a job number and
// renames them in place.
//
// Every rename probes for a free target name immediately before moving, so a
// Renamer assumes it is the only writer in its directory for the duration of
// a pass.
package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/joseph-ayodele/traveler-intake/internal/common"
)

// ScanPolicy controls what the traveler renamer does when it meets a file
// that already carries the traveler prefix.
type ScanPolicy string

const (
	// ContinueScan skips the processed file and keeps scanning.
	ContinueScan ScanPolicy = "continue"
	// StopAtFirstProcessed ends the scan at the first processed file, even if
	// the traveler being renamed comes later in listing order.
	StopAtFirstProcessed ScanPolicy = "stop"
)

// Op is one rename, relative to the renamer's directory.
type Op struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Plan is the ordered result of one scan. Ops are only added once their
// target name has been resolved free.
type Plan struct {
	Ops              []Op     `json:"ops"`
	AlreadyProcessed []string `json:"already_processed,omitempty"`
}

// Merge appends other to p.
func (p *Plan) Merge(other Plan) {
	p.Ops = append(p.Ops, other.Ops...)
	p.AlreadyProcessed = append(p.AlreadyProcessed, other.AlreadyProcessed...)
}

// Options configures a Renamer.
type Options struct {
	DryRun       bool
	MaxProbe     int
	TravelerScan ScanPolicy
	Logger       *slog.Logger
}

// Renamer renames files in a single directory.
type Renamer struct {
	dir    string
	opts   Options
	logger *slog.Logger

	// dry-run view of the directory
	claimed map[string]struct{}
	moved   map[string]struct{}

	// every source renamed away so far, in either mode
	sources map[string]struct{}
}

// New creates a renamer scoped to dir.
func New(dir string, opts Options) *Renamer {
	if opts.MaxProbe <= 0 {
		opts.MaxProbe = common.DefaultMaxProbe
	}
	if opts.TravelerScan == "" {
		opts.TravelerScan = ContinueScan
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renamer{
		dir:     dir,
		opts:    opts,
		logger:  logger,
		claimed: make(map[string]struct{}),
		moved:   make(map[string]struct{}),
		sources: make(map[string]struct{}),
	}
}

// Dir returns the directory the renamer is scoped to.
func (r *Renamer) Dir() string { return r.dir }

// Moved reports whether name was renamed away by this renamer.
func (r *Renamer) Moved(name string) bool {
	_, ok := r.sources[name]
	return ok
}

// list returns the regular files in the directory, sorted by name. In dry-run
// mode names already moved by the plan are hidden and claimed targets appear.
func (r *Renamer) list() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", r.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, gone := r.moved[e.Name()]; gone {
			continue
		}
		names = append(names, e.Name())
	}
	for name := range r.claimed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// taken reports whether name is occupied, on disk or by an earlier dry-run op.
func (r *Renamer) taken(name string) (bool, error) {
	if _, ok := r.claimed[name]; ok {
		return true, nil
	}
	if _, ok := r.moved[name]; ok {
		return false, nil
	}
	_, err := os.Lstat(filepath.Join(r.dir, name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("probe %s: %w", name, err)
	}
}

// freeName returns the first free name produced by candidate(1), candidate(2)...
func (r *Renamer) freeName(candidate func(n int) string) (string, error) {
	for n := 1; n <= r.opts.MaxProbe; n++ {
		name := candidate(n)
		busy, err := r.taken(name)
		if err != nil {
			return "", err
		}
		if !busy {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w after %d candidates (last %q)", common.ErrNoFreeName, r.opts.MaxProbe, candidate(r.opts.MaxProbe))
}

// move performs (or, in dry-run mode, records) a single rename.
func (r *Renamer) move(from, to string) error {
	r.logger.Info("renaming file", "dir", r.dir, "from", from, "to", to, "dry_run", r.opts.DryRun)
	if r.opts.DryRun {
		delete(r.claimed, from)
		r.moved[from] = struct{}{}
		r.claimed[to] = struct{}{}
		r.sources[from] = struct{}{}
		return nil
	}
	if err := os.Rename(filepath.Join(r.dir, from), filepath.Join(r.dir, to)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrMissingFile, from)
		}
		return fmt.Errorf("rename %s -> %s: %w", from, to, err)
	}
	r.sources[from] = struct{}{}
	return nil
}

func (r *Renamer) skip(plan *Plan, name, reason string) {
	r.logger.Debug("file already processed, skipping", "file", name, "reason", reason)
	plan.AlreadyProcessed = append(plan.AlreadyProcessed, name)
}
