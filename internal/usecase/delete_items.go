package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/boards-seed/internal/domain"
)

// DeleteItemsInput contains the parameters for deleting work items.
type DeleteItemsInput struct {
	Path string // Hierarchy YAML file, used only when the manifest is empty
}

// DeleteItemsOutput contains the result of deleting work items.
type DeleteItemsOutput struct {
	Report    *Report
	Remaining []domain.Record // Manifest records that could not be deleted
	Fallback  bool            // Items were found by title search instead of the manifest
}

// DeleteItems removes previously created work items, children first.
type DeleteItems struct {
	backend  domain.WorkItemBackend
	loader   domain.HierarchyLoader
	manifest domain.ManifestStore
	logger   domain.Logger
	config   *domain.Config
}

// NewDeleteItems creates a new DeleteItems use case.
func NewDeleteItems(
	backend domain.WorkItemBackend,
	loader domain.HierarchyLoader,
	manifest domain.ManifestStore,
	logger domain.Logger,
	config *domain.Config,
) *DeleteItems {
	return &DeleteItems{
		backend:  backend,
		loader:   loader,
		manifest: manifest,
		logger:   logger,
		config:   config,
	}
}

// Execute deletes the manifest records in reverse creation order.
// With no manifest records it searches for each node of the hierarchy file
// by title instead, visiting children before parents.
func (uc *DeleteItems) Execute(ctx context.Context, in DeleteItemsInput) (*DeleteItemsOutput, error) {
	records, err := uc.manifest.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	if len(records) == 0 {
		return uc.deleteByTitle(ctx, in.Path)
	}
	return uc.deleteRecords(ctx, records)
}

func (uc *DeleteItems) deleteRecords(ctx context.Context, records []domain.Record) (*DeleteItemsOutput, error) {
	uc.logger.Info("delete", fmt.Sprintf("Deleting %d work items from %s", len(records), uc.manifest.Path()))

	out := &DeleteItemsOutput{Report: &Report{}}
	keep := make([]bool, len(records))

	var ctxErr error
	for i := len(records) - 1; i >= 0; i-- {
		if ctxErr = ctx.Err(); ctxErr != nil {
			for j := 0; j <= i; j++ {
				keep[j] = true
			}
			break
		}

		r := records[i]
		if !r.HasRemoteID() {
			uc.logger.Warn("delete", fmt.Sprintf("Skipping %s %q: no work item ID", r.Type, r.Title))
			continue
		}

		uc.logger.Info("delete", fmt.Sprintf("Deleting %s: %s (ID: %d)", r.Type, r.Title, r.RemoteID))
		if err := uc.backend.Delete(ctx, r.RemoteID); err != nil {
			keep[i] = true
			opErr := out.Report.fail("delete", r.Title, r.RemoteID, err)
			uc.logger.Error("delete", "  "+opErr.Error())
			continue
		}
		out.Report.Deleted++
		uc.logger.Info("delete", fmt.Sprintf("  Successfully deleted %s with ID %d", r.Type, r.RemoteID))
	}

	for i, r := range records {
		if keep[i] {
			out.Remaining = append(out.Remaining, r)
		}
	}

	if len(out.Remaining) == 0 {
		if err := uc.manifest.Remove(); err != nil {
			return out, err
		}
		uc.logger.Debug("manifest", fmt.Sprintf("Removed %s", uc.manifest.Path()))
	} else {
		if err := uc.manifest.Save(out.Remaining); err != nil {
			return out, fmt.Errorf("save manifest: %w", err)
		}
		uc.logger.Warn("manifest", fmt.Sprintf("Kept %d undeleted items in %s", len(out.Remaining), uc.manifest.Path()))
	}

	return out, ctxErr
}

func (uc *DeleteItems) deleteByTitle(ctx context.Context, path string) (*DeleteItemsOutput, error) {
	uc.logger.Warn("delete", fmt.Sprintf("No items in %s. Attempting to delete based on %s...", uc.manifest.Path(), path))

	h, err := uc.loader.Load(path)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("delete", "Searching for work items to delete based on titles in the YAML file...")

	out := &DeleteItemsOutput{Report: &Report{}, Fallback: true}
	err = h.WalkPostOrder(func(n, _ *domain.Node, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		itemType := uc.config.Types.Name(n.Kind)
		ids, err := uc.backend.SearchByTitle(ctx, n.Title, itemType)
		if err != nil {
			opErr := out.Report.fail("search", n.Title, 0, err)
			uc.logger.Error("search", opErr.Error())
			return nil
		}
		if len(ids) == 0 {
			nf := &domain.NotFoundError{Type: itemType, Title: n.Title}
			out.Report.NotFound = append(out.Report.NotFound, nf)
			uc.logger.Warn("search", nf.Error())
			return nil
		}

		for _, id := range ids {
			uc.logger.Info("delete", fmt.Sprintf("Found %s: %s (ID: %d)", itemType, n.Title, id))
			if err := uc.backend.Delete(ctx, id); err != nil {
				opErr := out.Report.fail("delete", n.Title, id, err)
				uc.logger.Error("delete", "  "+opErr.Error())
				continue
			}
			out.Report.Deleted++
			uc.logger.Info("delete", fmt.Sprintf("  Successfully deleted %s with ID %d", itemType, id))
		}
		return nil
	})

	return out, err
}
