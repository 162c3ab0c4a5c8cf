package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the coverage root does not exist.
var ErrNotFound = errors.New("root path not found")

// ErrModelFinalized is returned when a merge is attempted on a finalized model.
var ErrModelFinalized = errors.New("coverage model is finalized")

// MalformedArtifactError reports an artifact that could not be parsed.
// It is recoverable: the pipeline logs it, counts it and moves on.
type MalformedArtifactError struct {
	Path Path
	Err  error
}

func (e *MalformedArtifactError) Error() string {
	return fmt.Sprintf("malformed artifact %s: %v", e.Path, e.Err)
}

func (e *MalformedArtifactError) Unwrap() error {
	return e.Err
}

// NewMalformedArtifactError wraps a parse failure with the offending path.
func NewMalformedArtifactError(path Path, err error) *MalformedArtifactError {
	return &MalformedArtifactError{Path: path, Err: err}
}

// IsMalformedArtifact reports whether err is a recoverable parse failure.
func IsMalformedArtifact(err error) bool {
	var malformed *MalformedArtifactError
	return errors.As(err, &malformed)
}
