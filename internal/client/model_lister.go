package client

import (
	"context"
	"fmt"
)

// ModelInfo describes a single model entry from the models endpoint.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
	Created int64  `json:"created,omitempty"`
}

// ErrModelsEndpointNotSupported is returned when the endpoint does not expose a models listing
type ErrModelsEndpointNotSupported struct {
	APIBase string
	Reason  string
}

func (e *ErrModelsEndpointNotSupported) Error() string {
	return fmt.Sprintf("models endpoint not supported at %s: %s", e.APIBase, e.Reason)
}

// IsModelsEndpointNotSupported checks if an error is ErrModelsEndpointNotSupported
func IsModelsEndpointNotSupported(err error) bool {
	_, ok := err.(*ErrModelsEndpointNotSupported)
	return ok
}

// ModelLister defines the interface for fetching model lists from provider APIs
type ModelLister interface {
	// ListModels returns the list of available models from the provider API
	// Returns ErrModelsEndpointNotSupported if the endpoint does not expose a models listing
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
