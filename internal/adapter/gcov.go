package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// Execer abstracts running an external process so the gcov invocation can be
// faked in tests.
type Execer interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// LocalExecer runs commands on the local machine.
type LocalExecer struct{}

// NewLocalExecer constructs a LocalExecer.
func NewLocalExecer() *LocalExecer {
	return &LocalExecer{}
}

// Run executes name with args in dir and returns the combined output.
func (e *LocalExecer) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return string(out), nil
}

// GcovRunner turns raw counter files (.gcda) into parseable .gcov text
// artifacts by shelling out to the gcov executable.
type GcovRunner struct {
	exec    Execer
	fs      FSAdapter
	gcovBin string
}

// NewGcovRunner constructs a GcovRunner using the given gcov executable name.
func NewGcovRunner(execer Execer, fs FSAdapter, gcovBin string) *GcovRunner {
	if gcovBin == "" {
		gcovBin = "gcov"
	}

	return &GcovRunner{exec: execer, fs: fs, gcovBin: gcovBin}
}

// Produce runs gcov on the given counter file and returns the .gcov text
// files it emitted. gcov writes into its working directory, so the runner
// executes in the counter file's directory and globs for the results there.
func (r *GcovRunner) Produce(ctx context.Context, dataFile m.Path) ([]m.Path, error) {
	dir := filepath.Dir(string(dataFile))

	before, err := r.fs.Glob(filepath.Join(dir, "*.gcov"))
	if err != nil {
		return nil, err
	}

	existing := make(map[m.Path]bool, len(before))
	for _, path := range before {
		existing[path] = true
	}

	// -b emits branch counts, -c emits them as counts instead of percentages.
	out, err := r.exec.Run(ctx, dir, r.gcovBin, "-b", "-c", filepath.Base(string(dataFile)))
	if err != nil {
		return nil, fmt.Errorf("gcov failed for %s: %w", dataFile, err)
	}

	slog.Debug("gcov run", "data_file", dataFile, "output", strings.TrimSpace(out))

	after, err := r.fs.Glob(filepath.Join(dir, "*.gcov"))
	if err != nil {
		return nil, err
	}

	var produced []m.Path

	for _, path := range after {
		if !existing[path] {
			produced = append(produced, path)
		}
	}

	return produced, nil
}
