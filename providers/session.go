// Package providers - Inference sessions.
package providers

import (
	"fmt"
	"os"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv guards the one-time native environment initialization. ONNX Runtime
// loads its shared library once per process.
var ortEnv sync.Once
var ortEnvErr error

// initEnvironment points ONNX Runtime at the shared library and initializes
// the native layer. Safe to call from every session constructor.
func initEnvironment() error {
	ortEnv.Do(func() {
		libPath := GetSharedLibPath()
		if _, err := os.Stat(libPath); os.IsNotExist(err) {
			ortEnvErr = fmt.Errorf("ONNX Runtime library not found at %s: %w", libPath, err)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			ortEnvErr = fmt.Errorf("initializing ORT environment: %w", err)
		}
	})
	return ortEnvErr
}

// Metrics holds cumulative inference statistics for a session.
type Metrics struct {
	// InferenceCount is the number of completed forward passes.
	InferenceCount int64 `json:"inference_count"`
	// TotalMilliseconds is the cumulative forward-pass wall time.
	TotalMilliseconds float64 `json:"total_time_ms"`
	// AverageMilliseconds is the mean forward-pass wall time.
	AverageMilliseconds float64 `json:"average_time_ms"`
}

// Session wraps a dynamic ONNX Runtime session bound to one execution
// provider. Tensors are created per call, so concurrent Run calls share no
// buffers; the underlying native session serializes work as the device
// requires.
type Session struct {
	session *ort.DynamicAdvancedSession
	backend Backend

	mu             sync.RWMutex
	inferenceCount int64
	totalTime      float64
}

// NewSessionArgs represents the arguments for creating a session.
type NewSessionArgs struct {
	// ModelPath is the path to the ONNX model file.
	ModelPath string
	// Backend is the execution provider to bind. Resolved once here, never
	// re-queried per request.
	Backend Backend
	// InputNames are the model's input tensor names.
	InputNames []string
	// OutputNames are the model's output tensor names.
	OutputNames []string
}

// NewSession creates an ONNX Runtime session with the configured execution
// provider appended to the session options.
//
// Order of operations:
//  1. Model file check: fail fast on a missing artifact.
//  2. Environment setup: one-time native library initialization.
//  3. Session options: graph optimization plus the provider-specific EP.
//  4. Session creation: loads the model into a runnable session.
//
// Arguments:
//   - args: The arguments for the session.
//
// Returns:
//   - *Session: The wrapped session ready for Run calls.
//   - error: An error if the session creation fails.
func NewSession(args NewSessionArgs) (*Session, error) {
	if _, err := os.Stat(args.ModelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", args.ModelPath)
	}

	if err := initEnvironment(); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating ORT session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return nil, fmt.Errorf("setting graph optimization level: %w", err)
	}

	switch args.Backend {
	case BackendCPU:
		// Default provider, nothing to append.
	case BackendCUDA:
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return nil, fmt.Errorf("creating CUDA provider options: %w", err)
		}
		defer cuda.Destroy()
		if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
			return nil, fmt.Errorf("enabling CUDA: %w", err)
		}
	case BackendCoreML:
		if err := options.AppendExecutionProviderCoreML(0); err != nil {
			return nil, fmt.Errorf("enabling CoreML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported execution provider: %q", args.Backend)
	}

	session, err := ort.NewDynamicAdvancedSession(
		args.ModelPath,
		args.InputNames,
		args.OutputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating ORT session: %w", err)
	}

	return &Session{session: session, backend: args.Backend}, nil
}

// Backend returns the execution provider the session was built with.
func (s *Session) Backend() Backend {
	return s.backend
}

// Run executes one forward pass with per-call tensors, tracking latency.
//
// Arguments:
//   - inputs: The input tensors.
//   - outputs: The output slots; nil entries are allocated by the runtime
//     and must be destroyed by the caller.
//
// Returns:
//   - error: An error if execution fails.
func (s *Session) Run(inputs, outputs []ort.Value) error {
	start := time.Now()
	err := s.session.Run(inputs, outputs)
	duration := float64(time.Since(start).Nanoseconds()) / 1e6

	s.mu.Lock()
	s.inferenceCount++
	s.totalTime += duration
	s.mu.Unlock()

	return err
}

// GetMetrics returns cumulative inference statistics.
//
// Returns:
//   - Metrics: The counters collected so far.
func (s *Session) GetMetrics() Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := Metrics{
		InferenceCount:    s.inferenceCount,
		TotalMilliseconds: s.totalTime,
	}
	if s.inferenceCount > 0 {
		m.AverageMilliseconds = s.totalTime / float64(s.inferenceCount)
	}
	return m
}

// Close releases the resources associated with the Session.
//
// Returns:
//   - error: An error if destroying the native session fails.
func (s *Session) Close() error {
	if s.session != nil {
		if err := s.session.Destroy(); err != nil {
			return fmt.Errorf("destroying ORT session: %w", err)
		}
		s.session = nil
	}
	return nil
}
