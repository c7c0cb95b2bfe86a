package ports

import (
	"context"
	"fmt"

	"github.com/clipworks/momentcut/internal/types"
)

// MomentFilter rejects candidates a cold viewer could not follow. The
// returned slice holds only kept candidates; implementations must not
// mutate the input.
type MomentFilter interface {
	Filter(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error)
}

// MomentScorer assigns a 0-10 score to each candidate and returns them
// sorted descending. The sort must be stable: ties keep input order.
type MomentScorer interface {
	Score(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error)
}

// TranscriptSource loads a timed transcript from some backing store.
type TranscriptSource interface {
	Load(ctx context.Context, path string) (types.Transcript, error)
}

// TraceSource produces an audio energy trace for a media file.
type TraceSource interface {
	Trace(ctx context.Context, mediaPath string) (types.EnergyTrace, error)
}

// ExternalToolError wraps a failure of an external decoder or tool. Callers
// treat it as recoverable and substitute defaults.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error { return e.Err }

// ConfigurationError reports an invalid or missing setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
