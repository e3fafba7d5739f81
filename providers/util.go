// Package providers - Utility functions.
package providers

import (
	"os"
	"runtime"
)

// GetSharedLibPath returns the path to the ONNX Runtime shared library for
// the current platform. The ONNXRUNTIME_LIB_PATH environment variable
// overrides the platform default.
//
// Returns:
//   - string: The path to the shared library.
func GetSharedLibPath() string {
	if p := os.Getenv("ONNXRUNTIME_LIB_PATH"); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return "./third_party/onnxruntime.dll"
	}
	if runtime.GOOS == "darwin" {
		return "./third_party/libonnxruntime.dylib"
	}
	if runtime.GOARCH == "arm64" {
		return "./third_party/onnxruntime_arm64.so"
	}
	return "./third_party/onnxruntime.so"
}
