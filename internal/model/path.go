// Package model defines the coverage data structures shared across covmeld.
package model

import "path/filepath"

// Path represents a file system path.
type Path string

// Normalize cleans the path and converts separators to slashes so the same
// logical source file always maps to the same model key.
func (p Path) Normalize() Path {
	return Path(filepath.ToSlash(filepath.Clean(string(p))))
}
