// Package depth - Depth-estimation core: error taxonomy, model handle, and
// inference pipeline.
package depth

import "github.com/pkg/errors"

// The three failure classes of the pipeline. Callers distinguish them with
// errors.Is; they are never collapsed into one generic failure.
var (
	// ErrInvalidImage marks a malformed, unreadable, or zero-area input.
	ErrInvalidImage = errors.New("invalid image")
	// ErrModelLoad marks a failure to resolve the network or its transform.
	ErrModelLoad = errors.New("model load failed")
	// ErrInference marks a failure during the forward pass or rendering.
	ErrInference = errors.New("inference failed")
)

// pipelineError ties a failure class to its cause so that both errors.Is on
// the class and errors.Unwrap to the cause work.
type pipelineError struct {
	class error
	cause error
}

func (e *pipelineError) Error() string {
	return e.class.Error() + ": " + e.cause.Error()
}

func (e *pipelineError) Is(target error) bool {
	return target == e.class
}

func (e *pipelineError) Unwrap() error {
	return e.cause
}

// classify wraps cause in the given failure class.
func classify(class, cause error) error {
	if cause == nil {
		return class
	}
	return &pipelineError{class: class, cause: cause}
}
