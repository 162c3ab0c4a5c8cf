// Package domain contains the covmeld pipeline logic: locating artifacts,
// merging their records and orchestrating report generation.
package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/mouse-blink/covmeld/internal/adapter"
	m "github.com/mouse-blink/covmeld/internal/model"
)

// LocateOptions filters the artifact search.
type LocateOptions struct {
	// Include holds glob patterns; when non-empty an artifact must match
	// at least one (against its root-relative path or base name).
	Include []string

	// Exclude holds glob patterns; a matching artifact is skipped.
	Exclude []string

	// Extensions restricts the search to the given file extensions.
	Extensions []string
}

// Locator discovers coverage artifacts under a root directory.
type Locator interface {
	// Locate walks root and returns the matching artifact paths, sorted
	// and deduplicated. The root may be a symbolic link.
	Locate(root m.Path, opts LocateOptions) ([]m.Path, error)
}

type locator struct {
	fs adapter.FSAdapter
}

// NewLocator constructs a Locator backed by the given filesystem adapter.
func NewLocator(fs adapter.FSAdapter) Locator {
	return &locator{fs: fs}
}

// Locate implements Locator.
func (l *locator) Locate(root m.Path, opts LocateOptions) ([]m.Path, error) {
	resolved, err := l.fs.ResolvePath(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", m.ErrNotFound, root)
	}

	info, err := l.fs.FileInfo(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", m.ErrNotFound, root)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	seen := make(map[m.Path]bool)

	var artifacts []m.Path

	err = l.fs.Walk(resolved, func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !hasExtension(walkPath, opts.Extensions) {
			return nil
		}

		rel, relErr := l.fs.RelPath(resolved, m.Path(walkPath))
		if relErr != nil {
			rel = m.Path(walkPath)
		}

		relSlash := string(rel.Normalize())

		if !matchesFilters(relSlash, opts) {
			slog.Debug("artifact filtered out", "path", relSlash)
			return nil
		}

		key := m.Path(walkPath)
		if target, resolveErr := l.fs.ResolvePath(key); resolveErr == nil {
			key = target
		}

		if seen[key] {
			return nil
		}

		seen[key] = true
		artifacts = append(artifacts, m.Path(walkPath))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i] < artifacts[j]
	})

	slog.Debug("located artifacts", "root", resolved, "count", len(artifacts))

	return artifacts, nil
}

func hasExtension(file string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}

	return false
}

func matchesFilters(rel string, opts LocateOptions) bool {
	base := path.Base(rel)

	for _, pattern := range opts.Exclude {
		if matchGlob(pattern, rel, base) {
			return false
		}
	}

	if len(opts.Include) == 0 {
		return true
	}

	for _, pattern := range opts.Include {
		if matchGlob(pattern, rel, base) {
			return true
		}
	}

	return false
}

func matchGlob(pattern, rel, base string) bool {
	if ok, err := path.Match(pattern, rel); err == nil && ok {
		return true
	}

	if ok, err := path.Match(pattern, base); err == nil && ok {
		return true
	}

	return false
}
