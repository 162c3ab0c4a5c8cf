package model

import (
	"fmt"
	"sort"
	"strings"
)

// BranchCoverage records execution counts for one branch of a conditional.
// Branches are identified by their index within the owning line.
type BranchCoverage struct {
	Count       int64
	Fallthrough bool
	Throw       bool
}

// Taken reports whether the branch executed at least once.
func (b BranchCoverage) Taken() bool {
	return b.Count > 0
}

// LineCoverage records the hit count and branches of one executable line.
type LineCoverage struct {
	Count    int64
	Branches []BranchCoverage
}

// Covered reports whether the line executed at least once.
func (l *LineCoverage) Covered() bool {
	return l.Count > 0
}

// Branch returns the branch at the given index, growing the slice so that
// observations from different artifacts land on the same branch slot.
func (l *LineCoverage) Branch(index int) *BranchCoverage {
	for index >= len(l.Branches) {
		l.Branches = append(l.Branches, BranchCoverage{})
	}

	return &l.Branches[index]
}

// FunctionCoverage records how often a function was entered.
type FunctionCoverage struct {
	Name      string
	StartLine int
	CallCount int64
}

// FileCoverage holds the merged observations for one logical source file.
// Lines are keyed by line number; a key being present means the line is
// executable in at least one artifact (union of executability).
type FileCoverage struct {
	Path      Path
	Lines     map[int]*LineCoverage
	Functions map[string]*FunctionCoverage
}

// NewFileCoverage creates an empty record for the given normalized path.
func NewFileCoverage(path Path) *FileCoverage {
	return &FileCoverage{
		Path:      path,
		Lines:     make(map[int]*LineCoverage),
		Functions: make(map[string]*FunctionCoverage),
	}
}

// Line returns the coverage record for lineno, creating it on first use.
func (f *FileCoverage) Line(lineno int) *LineCoverage {
	line, ok := f.Lines[lineno]
	if !ok {
		line = &LineCoverage{}
		f.Lines[lineno] = line
	}

	return line
}

// Function returns the record for the named function, creating it on first use.
func (f *FileCoverage) Function(name string) *FunctionCoverage {
	fn, ok := f.Functions[name]
	if !ok {
		fn = &FunctionCoverage{Name: name}
		f.Functions[name] = fn
	}

	return fn
}

// Merge folds another record for the same logical file into this one.
// Hit counts sum per line, branch counts sum per (line, branch index) and
// function call counts sum per name.
func (f *FileCoverage) Merge(other *FileCoverage) {
	for lineno, otherLine := range other.Lines {
		line := f.Line(lineno)
		line.Count += otherLine.Count

		for index, otherBranch := range otherLine.Branches {
			branch := line.Branch(index)
			branch.Count += otherBranch.Count
			branch.Fallthrough = branch.Fallthrough || otherBranch.Fallthrough
			branch.Throw = branch.Throw || otherBranch.Throw
		}
	}

	for name, otherFn := range other.Functions {
		fn := f.Function(name)
		fn.CallCount += otherFn.CallCount

		if fn.StartLine == 0 {
			fn.StartLine = otherFn.StartLine
		}
	}
}

// SortedLines returns the executable line numbers in ascending order.
func (f *FileCoverage) SortedLines() []int {
	lines := make([]int, 0, len(f.Lines))
	for lineno := range f.Lines {
		lines = append(lines, lineno)
	}

	sort.Ints(lines)

	return lines
}

// SortedFunctions returns the function records ordered by name.
func (f *FileCoverage) SortedFunctions() []*FunctionCoverage {
	functions := make([]*FunctionCoverage, 0, len(f.Functions))
	for _, fn := range f.Functions {
		functions = append(functions, fn)
	}

	sort.Slice(functions, func(i, j int) bool {
		return functions[i].Name < functions[j].Name
	})

	return functions
}

// UncoveredLines renders the line numbers that never executed as a compact
// comma-separated list of ranges, e.g. "7,12-18".
func (f *FileCoverage) UncoveredLines() string {
	var missed []int

	for _, lineno := range f.SortedLines() {
		if !f.Lines[lineno].Covered() {
			missed = append(missed, lineno)
		}
	}

	return formatRanges(missed)
}

func formatRanges(lines []int) string {
	if len(lines) == 0 {
		return ""
	}

	var parts []string

	first := lines[0]
	last := lines[0]

	flush := func() {
		if first == last {
			parts = append(parts, fmt.Sprintf("%d", first))
			return
		}

		parts = append(parts, fmt.Sprintf("%d-%d", first, last))
	}

	for _, lineno := range lines[1:] {
		if lineno == last+1 {
			last = lineno
			continue
		}

		flush()
		first, last = lineno, lineno
	}

	flush()

	return strings.Join(parts, ",")
}
