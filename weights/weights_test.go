package weights

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(path, []byte("weights"), 0o644))

	got, err := Ensure(path, "")
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestEnsureMissingWithoutURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.onnx")

	_, err := Ensure(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no download URL")
}

func TestEnsureDownloads(t *testing.T) {
	payload := []byte("fake onnx graph bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "cache", "model.onnx")

	got, err := Ensure(path, server.URL)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// No partial file left behind.
	_, err = os.Stat(path + ".partial")
	assert.True(t, os.IsNotExist(err))
}

func TestEnsureServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "model.onnx")

	_, err := Ensure(path, server.URL)
	require.Error(t, err)

	// Neither the final file nor a partial survives a failed fetch.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(path + ".partial")
	assert.True(t, os.IsNotExist(statErr))
}
