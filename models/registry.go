// Package models - registry and ONNX provider for depth models.
package models

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-depth/models/midas"
	"github.com/nvr-ai/go-depth/models/model"
)

// Lookup resolves a model name to its full descriptor.
//
// This is the single entry point for model resolution: adding a new depth
// model means adding a descriptor package and a case here, and the rest of
// the system picks it up through the provider.
//
// Arguments:
//   - name: The registry identifier of the model.
//
// Returns:
//   - model.Descriptor: The resolved descriptor.
//   - error: An error if the name is not registered.
func Lookup(name model.Name) (model.Descriptor, error) {
	switch name {
	case model.NameMiDaSSmall:
		return midas.Small(), nil
	default:
		return model.Descriptor{}, errors.Errorf("unsupported model name: %s", name)
	}
}
