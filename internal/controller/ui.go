// Package controller provides output adapters for displaying coverage results.
package controller

import (
	"context"

	"github.com/mouse-blink/covmeld/internal/domain"
	m "github.com/mouse-blink/covmeld/internal/model"
)

// UI defines the interface for presenting a finished run to the user.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	// DisplaySummary shows the run totals and per-file coverage.
	DisplaySummary(ctx context.Context, model *m.CoverageModel, summary domain.RunSummary) error
}
