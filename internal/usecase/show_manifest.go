package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/boards-seed/internal/domain"
)

// ShowManifestInput contains the input for the ShowManifest use case.
type ShowManifestInput struct{}

// ShowManifestOutput contains the output of the ShowManifest use case.
type ShowManifestOutput struct {
	Path    string
	Records []domain.Record // In creation order
}

// ShowManifest lists the records of created work items.
type ShowManifest struct {
	manifest domain.ManifestStore
}

// NewShowManifest creates a new ShowManifest use case.
func NewShowManifest(manifest domain.ManifestStore) *ShowManifest {
	return &ShowManifest{
		manifest: manifest,
	}
}

// Execute loads the manifest.
func (uc *ShowManifest) Execute(_ context.Context, _ ShowManifestInput) (*ShowManifestOutput, error) {
	records, err := uc.manifest.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return &ShowManifestOutput{
		Path:    uc.manifest.Path(),
		Records: records,
	}, nil
}
