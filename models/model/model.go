// Package model - Shared definitions for depth model descriptors.
package model

import (
	"github.com/nvr-ai/go-depth/images"
)

// Name is the unique identifier of a model.
type Name string

const (
	// NameMiDaSSmall is the name of the MiDaS v2.1 small model.
	NameMiDaSSmall Name = "midas-small"
)

// Descriptor fully describes how to obtain and run one depth model: where
// its weights live, how to preprocess an image for it, and which graph
// nodes to bind at inference time.
type Descriptor struct {
	// Name is the model's registry identifier.
	Name Name
	// Transform is the preprocessing recipe the model was trained with.
	Transform images.TransformConfig
	// InputName is the ONNX graph input node.
	InputName string
	// OutputName is the ONNX graph output node.
	OutputName string
	// WeightsFile is the file name the weights are cached under.
	WeightsFile string
	// WeightsURL is the upstream release artifact for the weights.
	WeightsURL string
}
