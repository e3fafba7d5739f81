// Package weights - Model weight retrieval.
package weights

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	fetchTimeout  = 5 * time.Minute
	maxRetryCount = 3
	retryDelay    = 500 * time.Millisecond
)

// Ensure returns the path of a local weights file, downloading it from url
// when absent. The download writes to a .partial file first so an aborted
// fetch never leaves a truncated artifact at the final path.
//
// Arguments:
//   - path: The destination weights file.
//   - url: The download source. May be empty when the file already exists.
//
// Returns:
//   - string: The path of the usable weights file.
//   - error: An error if the file is missing and cannot be fetched.
func Ensure(path, url string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if url == "" {
		return "", fmt.Errorf("weights file not found: %s (no download URL configured)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating weights directory: %w", err)
	}

	client := resty.New().
		SetTimeout(fetchTimeout).
		SetRetryCount(maxRetryCount).
		SetRetryWaitTime(retryDelay)

	partial := path + ".partial"
	resp, err := client.R().SetOutput(partial).Get(url)
	if err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("downloading weights from %s: %w", url, err)
	}
	if resp.IsError() {
		os.Remove(partial)
		return "", fmt.Errorf("downloading weights from %s: %s", url, resp.Status())
	}

	if err := os.Rename(partial, path); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("publishing weights file: %w", err)
	}
	return path, nil
}
