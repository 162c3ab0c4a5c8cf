package domain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/covmeld/internal/adapter"
	m "github.com/mouse-blink/covmeld/internal/model"
	"github.com/mouse-blink/covmeld/internal/parser"
	"github.com/mouse-blink/covmeld/internal/render"
	"github.com/mouse-blink/covmeld/pkg"
)

// Output pairs a report format with its destination file.
type Output struct {
	Format render.Format
	Path   m.Path
	Pretty bool
}

// RunArgs carries one pipeline invocation's configuration.
type RunArgs struct {
	Root    m.Path
	Include []string
	Exclude []string

	// Tracefiles are previously emitted JSON models merged in via -a.
	Tracefiles []m.Path

	// UseExistingFiles parses .gcov files already on disk instead of
	// running gcov over .gcda counter files.
	UseExistingFiles bool

	// KeepGcovFiles leaves gcov's intermediate .gcov output in place.
	KeepGcovFiles bool

	// DeleteDataFiles removes processed .gcda files after parsing.
	DeleteDataFiles bool

	// Jobs bounds the number of artifacts parsed concurrently.
	Jobs int

	Outputs []Output
}

// RunSummary reports what one pipeline run processed.
type RunSummary struct {
	// Artifacts is the number of inputs parsed successfully.
	Artifacts int

	// Skipped is the number of malformed or unreadable inputs.
	Skipped int

	Stats m.Summary
}

// Workflow runs the full pipeline: locate, parse, merge, render.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) (*m.CoverageModel, RunSummary, error)
}

type workflow struct {
	fs      adapter.FSAdapter
	gcov    *adapter.GcovRunner
	locator Locator
}

// NewWorkflow wires the pipeline with its adapters.
func NewWorkflow(fs adapter.FSAdapter, gcov *adapter.GcovRunner, locator Locator) Workflow {
	return &workflow{fs: fs, gcov: gcov, locator: locator}
}

// Run implements Workflow. Malformed artifacts are logged, counted and
// skipped; failures to write a report abort the run.
func (w *workflow) Run(ctx context.Context, args RunArgs) (*m.CoverageModel, RunSummary, error) {
	var summary RunSummary

	root, err := w.fs.ResolvePath(args.Root)
	if err != nil {
		return nil, summary, fmt.Errorf("%w: %s", m.ErrNotFound, args.Root)
	}

	gcovFiles, produced, dataFiles, gcovSkipped, err := w.collectGcovFiles(ctx, root, args)
	if err != nil {
		return nil, summary, err
	}

	spill, err := pkg.NewSpill[*m.FileCoverage]()
	if err != nil {
		return nil, summary, err
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("failed to close spill", "error", err)
		}
	}()

	var parsed, skipped atomic.Int64

	skipped.Add(int64(gcovSkipped))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, args.Jobs))

	for _, artifact := range gcovFiles {
		artifact := artifact

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			data, err := w.fs.ReadFile(artifact)
			if err != nil {
				slog.Warn("cannot read artifact", "path", artifact, "error", err)
				skipped.Add(1)

				return nil
			}

			record, err := parser.ParseGcov(artifact, data)
			if err != nil {
				if m.IsMalformedArtifact(err) {
					slog.Warn("skipping malformed artifact", "path", artifact, "error", err)
					skipped.Add(1)

					return nil
				}

				return err
			}

			if err := spill.Append(record); err != nil {
				return err
			}

			parsed.Add(1)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, summary, err
	}

	w.cleanupArtifacts(args, produced, dataFiles)

	if err := w.addTracefiles(args.Tracefiles, spill, &parsed, &skipped); err != nil {
		return nil, summary, err
	}

	merger := NewMerger()

	err = spill.Range(func(_ uint64, record *m.FileCoverage) error {
		record.Path = w.normalizeRecordPath(root, record.Path)
		return merger.Add(record)
	})
	if err != nil {
		return nil, summary, err
	}

	model := merger.Finalize()

	for _, output := range args.Outputs {
		if err := w.renderOutput(model, output); err != nil {
			return nil, summary, err
		}
	}

	summary.Artifacts = int(parsed.Load())
	summary.Skipped = int(skipped.Load())
	summary.Stats = m.Summarize(model)

	slog.Info("run complete",
		"artifacts", summary.Artifacts,
		"skipped", summary.Skipped,
		"files", model.Len(),
	)

	return model, summary, nil
}

// collectGcovFiles returns the .gcov artifacts to parse. When not reusing
// existing files it runs gcov over every located .gcda counter file; gcov
// invocations are serialized because gcov writes into the working
// directory and concurrent runs in one directory would clobber each other.
func (w *workflow) collectGcovFiles(
	ctx context.Context,
	root m.Path,
	args RunArgs,
) (gcovFiles, produced, dataFiles []m.Path, skipped int, err error) {
	opts := LocateOptions{Include: args.Include, Exclude: args.Exclude}

	if args.UseExistingFiles {
		opts.Extensions = []string{".gcov"}

		gcovFiles, err = w.locator.Locate(root, opts)

		return gcovFiles, nil, nil, 0, err
	}

	opts.Extensions = []string{".gcda"}

	located, err := w.locator.Locate(root, opts)
	if err != nil {
		return nil, nil, nil, 0, err
	}

	for _, dataFile := range located {
		out, err := w.gcov.Produce(ctx, dataFile)
		if err != nil {
			slog.Warn("gcov failed, skipping counter file", "path", dataFile, "error", err)
			skipped++

			continue
		}

		gcovFiles = append(gcovFiles, out...)
		produced = append(produced, out...)
		dataFiles = append(dataFiles, dataFile)
	}

	return gcovFiles, produced, dataFiles, skipped, nil
}

func (w *workflow) cleanupArtifacts(args RunArgs, produced, dataFiles []m.Path) {
	if !args.KeepGcovFiles {
		for _, path := range produced {
			if err := w.fs.Remove(path); err != nil {
				slog.Warn("failed to remove intermediate file", "path", path, "error", err)
			}
		}
	}

	if args.DeleteDataFiles {
		for _, path := range dataFiles {
			if err := w.fs.Remove(path); err != nil {
				slog.Warn("failed to delete counter file", "path", path, "error", err)
			}
		}
	}
}

func (w *workflow) addTracefiles(
	tracefiles []m.Path,
	spill pkg.Spill[*m.FileCoverage],
	parsed, skipped *atomic.Int64,
) error {
	for _, tracefile := range tracefiles {
		data, err := w.fs.ReadFile(tracefile)
		if err != nil {
			return fmt.Errorf("reading tracefile: %w", err)
		}

		records, err := parser.ParseTracefile(tracefile, data)
		if err != nil {
			if m.IsMalformedArtifact(err) {
				slog.Warn("skipping malformed tracefile", "path", tracefile, "error", err)
				skipped.Add(1)

				continue
			}

			return err
		}

		for _, record := range records {
			if err := spill.Append(record); err != nil {
				return err
			}
		}

		parsed.Add(1)
	}

	return nil
}

// normalizeRecordPath maps absolute source paths under the root to
// root-relative ones so the same logical file merges across runs started
// from different directories.
func (w *workflow) normalizeRecordPath(root, path m.Path) m.Path {
	if filepath.IsAbs(string(path)) {
		if rel, err := w.fs.RelPath(root, path); err == nil && !strings.HasPrefix(string(rel), "..") {
			return rel.Normalize()
		}
	}

	return path.Normalize()
}

func (w *workflow) renderOutput(model *m.CoverageModel, output Output) error {
	renderer, err := render.New(output.Format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := renderer.Render(&buf, model, render.Options{Pretty: output.Pretty}); err != nil {
		return fmt.Errorf("rendering %s report: %w", output.Format, err)
	}

	if err := w.fs.WriteFile(output.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s report to %s: %w", output.Format, output.Path, err)
	}

	slog.Info("report written", "format", output.Format, "path", output.Path)

	return nil
}
