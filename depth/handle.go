package depth

import (
	"sync"

	"github.com/nvr-ai/go-depth/images"
	"github.com/nvr-ai/go-depth/providers"
)

// Prediction is the raw single-channel output of one forward pass at the
// model's native resolution. Values are unnormalized inverse-depth scores.
type Prediction struct {
	// Data holds row-major scores, length Width*Height.
	Data []float32
	// Width of the prediction.
	Width int
	// Height of the prediction.
	Height int
}

// Network is a loaded depth-estimation network. Implementations must be
// safe for concurrent Forward calls: once published by the handle, the
// network is read-only shared state.
type Network interface {
	Forward(input []float32) (*Prediction, error)
	Close() error
}

// Provider supplies a callable network together with its companion
// preprocessing transform. The transform must be the one the network was
// trained with.
type Provider interface {
	Load() (Network, images.TransformConfig, error)
}

// Handle owns the one network instance for the process lifetime, loaded on
// demand. A failed load is not latched: the next EnsureLoaded call retries,
// so a transient provider failure does not poison the process.
type Handle struct {
	provider Provider

	mu        sync.Mutex
	network   Network
	transform images.TransformConfig
}

// NewHandle creates an unloaded handle around the given provider.
//
// Arguments:
//   - provider: The model provider queried on first use.
//
// Returns:
//   - *Handle: The handle, in the unloaded state.
func NewHandle(provider Provider) *Handle {
	return &Handle{provider: provider}
}

// EnsureLoaded resolves the network and transform from the provider on the
// first successful call and is a no-op afterwards. One mutex gates the
// load-and-publish sequence: concurrent first callers block until the load
// completes and then observe the published handle, so exactly one load
// occurs and no caller ever sees a partially constructed state.
//
// Returns:
//   - Network: The loaded network.
//   - images.TransformConfig: The network's preprocessing transform.
//   - error: ErrModelLoad wrapping the provider failure, if any.
func (h *Handle) EnsureLoaded() (Network, images.TransformConfig, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.network != nil {
		return h.network, h.transform, nil
	}

	network, transform, err := h.provider.Load()
	if err != nil {
		return nil, images.TransformConfig{}, classify(ErrModelLoad, err)
	}

	h.network = network
	h.transform = transform
	return h.network, h.transform, nil
}

// Loaded reports whether a network has been published.
func (h *Handle) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.network != nil
}

// Stats returns cumulative inference metrics when the loaded network
// exposes them, and zero counters otherwise.
func (h *Handle) Stats() providers.Metrics {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.network.(interface{ GetMetrics() providers.Metrics }); ok {
		return m.GetMetrics()
	}
	return providers.Metrics{}
}

// Close releases the network if one was loaded.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.network == nil {
		return nil
	}
	err := h.network.Close()
	h.network = nil
	return err
}
