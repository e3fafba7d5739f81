// Package providers - ONNX Runtime execution providers and sessions.
package providers

import "fmt"

// Backend represents an ONNX Runtime execution provider.
type Backend string

const (
	// BackendCPU uses the default CPU provider.
	BackendCPU Backend = "cpu"

	// BackendCUDA uses NVIDIA CUDA for GPU acceleration.
	BackendCUDA Backend = "cuda"

	// BackendCoreML uses Apple CoreML for macOS acceleration.
	BackendCoreML Backend = "coreml"
)

// ParseBackend validates a backend name from configuration.
//
// Arguments:
//   - name: The configured backend name.
//
// Returns:
//   - Backend: The parsed backend.
//   - error: An error if the name matches no supported provider.
func ParseBackend(name string) (Backend, error) {
	switch Backend(name) {
	case BackendCPU, BackendCUDA, BackendCoreML:
		return Backend(name), nil
	default:
		return "", fmt.Errorf("unsupported execution provider: %q", name)
	}
}
