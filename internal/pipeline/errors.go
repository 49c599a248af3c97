package pipeline

import (
	"errors"
	"fmt"

	"github.com/nao1215/ucma/internal/plugin"
)

// ErrStageFailure matches every *StageError.
var ErrStageFailure = errors.New("stage failure")

// StageError reports a stage that failed for one work item, either during
// construction or while running.
type StageError struct {
	// Stage is the capability that failed.
	Stage plugin.Capability

	// Item is the work item being processed.
	Item string

	// Err is the underlying error.
	Err error
}

// Error implements error.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Stage, e.Item, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStageFailure) true.
func (e *StageError) Is(target error) bool {
	return target == ErrStageFailure
}
