// Package parser turns coverage artifacts into partial per-file records.
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	m "github.com/mouse-blink/covmeld/internal/model"
)

// ParseGcov parses one gcov text artifact (the output of `gcov -b -c`) into
// a partial record for the source file it describes.
//
// The format interleaves three kinds of lines:
//
//	       -:    0:Source:src/lib.c        preamble metadata (line 0)
//	       5:   23:if (x) {                count : line number : source text
//	   #####:   24:  dead();               executable, never hit
//	branch  0 taken 5 (fallthrough)        annotation for the preceding line
//	function main called 5 returned 100%   annotation for the following line
//
// Unparsable content yields a MalformedArtifactError so the pipeline can
// skip the artifact and keep going.
func ParseGcov(artifact m.Path, data []byte) (*m.FileCoverage, error) {
	var (
		record      *m.FileCoverage
		currentLine *m.LineCoverage
		pendingFns  []*m.FunctionCoverage
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineno := 0

	for scanner.Scan() {
		lineno++
		text := scanner.Text()

		switch {
		case strings.TrimSpace(text) == "":
			continue

		case strings.HasPrefix(text, "function "):
			name, count, err := parseFunctionAnnotation(text)
			if err != nil {
				return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: %w", lineno, err))
			}

			if record == nil {
				return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: function annotation before Source preamble", lineno))
			}

			fn := record.Function(name)
			fn.CallCount += count
			pendingFns = append(pendingFns, fn)

		case strings.HasPrefix(text, "branch "):
			branch, err := parseBranchAnnotation(text)
			if err != nil {
				return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: %w", lineno, err))
			}

			// Branch annotations on non-executable lines carry no index
			// context, drop them like gcov does for unexecuted blocks.
			if currentLine == nil {
				continue
			}

			slot := currentLine.Branch(branchIndex(currentLine))
			*slot = *branch

		case strings.HasPrefix(text, "call ") || strings.HasPrefix(text, "unconditional "):
			continue

		default:
			var err error

			record, currentLine, pendingFns, err = parseSourceLine(artifact, record, pendingFns, text, lineno)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", artifact, err)
	}

	if record == nil {
		return nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("missing Source preamble"))
	}

	return record, nil
}

// branchIndex returns the next free branch slot on the line. Branch
// annotations arrive in index order directly below their line.
func branchIndex(line *m.LineCoverage) int {
	return len(line.Branches)
}

func parseSourceLine(
	artifact m.Path,
	record *m.FileCoverage,
	pendingFns []*m.FunctionCoverage,
	text string,
	lineno int,
) (*m.FileCoverage, *m.LineCoverage, []*m.FunctionCoverage, error) {
	parts := strings.SplitN(text, ":", 3)
	if len(parts) < 3 {
		return nil, nil, nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: not a count:line:text record", lineno))
	}

	countField := strings.TrimSpace(parts[0])

	sourceLine, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: bad line number: %w", lineno, err))
	}

	// Line 0 carries preamble metadata (Source, Graph, Data, Runs).
	if sourceLine == 0 {
		if source, ok := strings.CutPrefix(parts[2], "Source:"); ok {
			record = m.NewFileCoverage(m.Path(source))
		}

		return record, nil, pendingFns, nil
	}

	if record == nil {
		return nil, nil, nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: source line before Source preamble", lineno))
	}

	// Non-executable line.
	if countField == "-" {
		return record, nil, pendingFns, nil
	}

	count, err := parseHitCount(countField)
	if err != nil {
		return nil, nil, nil, m.NewMalformedArtifactError(artifact, fmt.Errorf("line %d: %w", lineno, err))
	}

	line := record.Line(sourceLine)
	line.Count += count

	for _, fn := range pendingFns {
		if fn.StartLine == 0 {
			fn.StartLine = sourceLine
		}
	}

	return record, line, nil, nil
}

// parseHitCount handles the gcov count column: "#####" and "=====" mark
// executable lines that never ran, a trailing "*" marks lines with
// unexecuted exceptional paths.
func parseHitCount(field string) (int64, error) {
	if field == "#####" || field == "=====" {
		return 0, nil
	}

	field = strings.TrimSuffix(field, "*")

	count, err := strconv.ParseInt(field, 10, 64)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("bad hit count %q", field)
	}

	return count, nil
}

// parseBranchAnnotation handles "branch N taken M [(fallthrough|throw)]"
// and "branch N never executed". A nil result with nil error means the
// annotation carries no countable data.
func parseBranchAnnotation(text string) (*m.BranchCoverage, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return nil, fmt.Errorf("bad branch annotation %q", text)
	}

	if fields[2] == "never" && fields[3] == "executed" {
		return &m.BranchCoverage{}, nil
	}

	if fields[2] != "taken" {
		return nil, fmt.Errorf("bad branch annotation %q", text)
	}

	if strings.HasSuffix(fields[3], "%") {
		return nil, fmt.Errorf("branch percentages in %q: re-run gcov with -c to get counts", text)
	}

	count, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || count < 0 {
		return nil, fmt.Errorf("bad branch count in %q", text)
	}

	return &m.BranchCoverage{
		Count:       count,
		Fallthrough: strings.Contains(text, "(fallthrough)"),
		Throw:       strings.Contains(text, "(throw)"),
	}, nil
}

// parseFunctionAnnotation handles "function NAME called N returned ...".
// Demangled C++ names may contain spaces, so the name is everything between
// the keywords.
func parseFunctionAnnotation(text string) (string, int64, error) {
	fields := strings.Fields(text)

	calledIdx := -1

	for i, field := range fields {
		if field == "called" {
			calledIdx = i
		}
	}

	if calledIdx < 2 || calledIdx+1 >= len(fields) {
		return "", 0, fmt.Errorf("bad function annotation %q", text)
	}

	count, err := strconv.ParseInt(fields[calledIdx+1], 10, 64)
	if err != nil || count < 0 {
		return "", 0, fmt.Errorf("bad call count in %q", text)
	}

	name := strings.Join(fields[1:calledIdx], " ")

	return name, count, nil
}
