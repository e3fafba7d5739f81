package models

import (
	"path/filepath"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-depth/depth"
	"github.com/nvr-ai/go-depth/images"
	"github.com/nvr-ai/go-depth/models/model"
	"github.com/nvr-ai/go-depth/providers"
	"github.com/nvr-ai/go-depth/weights"
)

// ProviderArgs configures an ONNXProvider.
type ProviderArgs struct {
	// Model is the registry name of the model to load.
	Model model.Name
	// WeightsPath optionally pins the weights file location. When empty,
	// the path is derived from CacheDir and the descriptor's file name.
	WeightsPath string
	// WeightsURL optionally overrides the descriptor's download URL.
	WeightsURL string
	// CacheDir is where downloaded weights are stored.
	CacheDir string
	// Backend selects the execution provider.
	Backend providers.Backend
	// Warmup is the number of throwaway forward passes to run after load.
	Warmup int
}

// ONNXProvider loads depth models through ONNX Runtime. It implements
// depth.Provider: Load resolves the descriptor, ensures the weights are on
// disk, and builds a session bound to the descriptor's graph nodes.
type ONNXProvider struct {
	args ProviderArgs
}

// NewONNXProvider creates a provider for the given configuration.
//
// Arguments:
//   - args: The model, weights location, and backend selection.
//
// Returns:
//   - *ONNXProvider: The provider. No work happens until Load.
func NewONNXProvider(args ProviderArgs) *ONNXProvider {
	return &ONNXProvider{args: args}
}

// Load resolves the model descriptor, downloads the weights if they are
// not cached, creates the runtime session, and optionally warms it up.
//
// Returns:
//   - depth.Network: The callable network.
//   - images.TransformConfig: The model's preprocessing transform.
//   - error: An error if any stage of the load fails.
func (p *ONNXProvider) Load() (depth.Network, images.TransformConfig, error) {
	desc, err := Lookup(p.args.Model)
	if err != nil {
		return nil, images.TransformConfig{}, err
	}

	path := p.args.WeightsPath
	if path == "" {
		path = filepath.Join(p.args.CacheDir, desc.WeightsFile)
	}
	url := p.args.WeightsURL
	if url == "" {
		url = desc.WeightsURL
	}

	path, err = weights.Ensure(path, url)
	if err != nil {
		return nil, images.TransformConfig{}, errors.Wrapf(err, "ensuring weights for %s", desc.Name)
	}

	session, err := providers.NewSession(providers.NewSessionArgs{
		ModelPath:   path,
		Backend:     p.args.Backend,
		InputNames:  []string{desc.InputName},
		OutputNames: []string{desc.OutputName},
	})
	if err != nil {
		return nil, images.TransformConfig{}, errors.Wrapf(err, "creating session for %s", desc.Name)
	}

	network := &onnxNetwork{
		session:   session,
		transform: desc.Transform,
	}

	for i := 0; i < p.args.Warmup; i++ {
		size := 3 * desc.Transform.InputHeight * desc.Transform.InputWidth
		if _, err := network.Forward(make([]float32, size)); err != nil {
			_ = network.Close()
			return nil, images.TransformConfig{}, errors.Wrapf(err, "warmup pass %d for %s", i, desc.Name)
		}
	}

	return network, desc.Transform, nil
}

// onnxNetwork adapts a providers.Session to the depth.Network interface.
// Each Forward call builds its own input and output tensors, so concurrent
// callers never share mutable buffers.
type onnxNetwork struct {
	session   *providers.Session
	transform images.TransformConfig
}

// Forward runs one inference over a CHW float32 tensor.
//
// Arguments:
//   - input: The preprocessed tensor, length 3*InputHeight*InputWidth.
//
// Returns:
//   - *depth.Prediction: The prediction at the model's native resolution.
//   - error: An error if the tensor is malformed or the run fails.
func (n *onnxNetwork) Forward(input []float32) (*depth.Prediction, error) {
	h := n.transform.InputHeight
	w := n.transform.InputWidth
	if len(input) != 3*h*w {
		return nil, errors.Errorf("input length %d, want %d for %dx%d", len(input), 3*h*w, w, h)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, 3, int64(h), int64(w)), input)
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}
	defer inputTensor.Destroy()

	outputs := make([]ort.Value, 1)
	if err := n.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, err
	}
	defer outputs[0].Destroy()

	outputTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.Errorf("unexpected output tensor type %T", outputs[0])
	}

	predH, predW, err := predictionDims(outputTensor.GetShape())
	if err != nil {
		return nil, err
	}

	data := outputTensor.GetData()
	pred := &depth.Prediction{
		Data:   make([]float32, len(data)),
		Width:  predW,
		Height: predH,
	}
	copy(pred.Data, data)
	return pred, nil
}

// GetMetrics returns the session's cumulative inference counters.
func (n *onnxNetwork) GetMetrics() providers.Metrics {
	return n.session.GetMetrics()
}

// Close destroys the underlying session.
func (n *onnxNetwork) Close() error {
	return n.session.Close()
}

// predictionDims extracts the spatial [H, W] dimensions from an output
// shape, tolerating leading singleton batch and channel axes. MiDaS emits
// [1, H, W]; other exports may emit [1, 1, H, W] or a bare [H, W].
func predictionDims(shape ort.Shape) (int, int, error) {
	dims := make([]int64, 0, len(shape))
	for _, d := range shape {
		dims = append(dims, d)
	}
	for len(dims) > 2 && dims[0] == 1 {
		dims = dims[1:]
	}
	if len(dims) != 2 || dims[0] <= 0 || dims[1] <= 0 {
		return 0, 0, errors.Errorf("unexpected output shape %v", shape)
	}
	return int(dims[0]), int(dims[1]), nil
}
