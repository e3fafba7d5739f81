// Package midas - Descriptor for the MiDaS family of monocular depth models.
package midas

import (
	"github.com/nvr-ai/go-depth/images"
	"github.com/nvr-ai/go-depth/models/model"
)

// Small returns the descriptor for MiDaS v2.1 small, the 256x256 variant
// exported to ONNX by the upstream project. The transform matches the
// model's training recipe: bicubic resize to a fixed square input and
// ImageNet channel statistics.
//
// Returns:
//   - model.Descriptor: The MiDaS small descriptor.
func Small() model.Descriptor {
	return model.Descriptor{
		Name: model.NameMiDaSSmall,
		Transform: images.TransformConfig{
			Name:          string(model.NameMiDaSSmall),
			InputWidth:    256,
			InputHeight:   256,
			Mean:          [3]float32{0.485, 0.456, 0.406},
			Std:           [3]float32{0.229, 0.224, 0.225},
			Interpolation: images.InterpolationBicubic,
		},
		InputName:   "input",
		OutputName:  "output",
		WeightsFile: "midas_v21_small.onnx",
		WeightsURL:  "https://github.com/isl-org/MiDaS/releases/download/v2_1/model-small.onnx",
	}
}
