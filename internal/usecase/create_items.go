package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/boards-seed/internal/domain"
)

// CreateItemsInput contains the parameters for creating work items.
type CreateItemsInput struct {
	Path   string // Hierarchy YAML file
	DryRun bool   // Parse and return the plan without calling the backend
}

// CreateItemsOutput contains the result of creating work items.
type CreateItemsOutput struct {
	Hierarchy *domain.Hierarchy // Parsed tree; created nodes carry their RemoteID
	Report    *Report
	Records   []domain.Record // Records added to the manifest by this run
}

// CreateItems creates the work items of a hierarchy file, parents first.
type CreateItems struct {
	backend  domain.WorkItemBackend
	loader   domain.HierarchyLoader
	manifest domain.ManifestStore
	logger   domain.Logger
	config   *domain.Config
	runID    string
}

// NewCreateItems creates a new CreateItems use case.
// backend may be nil when only dry runs are executed.
func NewCreateItems(
	backend domain.WorkItemBackend,
	loader domain.HierarchyLoader,
	manifest domain.ManifestStore,
	logger domain.Logger,
	config *domain.Config,
	runID string,
) *CreateItems {
	return &CreateItems{
		backend:  backend,
		loader:   loader,
		manifest: manifest,
		logger:   logger,
		config:   config,
		runID:    runID,
	}
}

// createRun holds per-execution state.
type createRun struct {
	report         *Report
	records        []domain.Record
	linkSeparately bool
}

// Execute walks the hierarchy in pre-order and creates each node.
// Parse errors are returned immediately and nothing is written.
// Per-item failures are collected in the report and the walk continues
// with the next sibling; the subtree of a node that failed is skipped.
func (uc *CreateItems) Execute(ctx context.Context, in CreateItemsInput) (*CreateItemsOutput, error) {
	h, err := uc.loader.Load(in.Path)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("create", fmt.Sprintf("Creating work items from %s", in.Path))

	out := &CreateItemsOutput{Hierarchy: h, Report: &Report{}}
	if in.DryRun {
		uc.logger.Info("create", fmt.Sprintf("Dry run: %d work items would be created", h.Count()))
		return out, nil
	}

	existing, err := uc.manifest.Load()
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	run := &createRun{
		report:         out.Report,
		linkSeparately: uc.config.LinkSeparately(uc.backend.LinksOnCreate()),
	}

	var walkErr error
	for _, epic := range h.Epics {
		if walkErr = uc.createNode(ctx, run, epic, nil, 0); walkErr != nil {
			break
		}
	}

	out.Records = run.records
	if len(run.records) > 0 {
		if err := uc.manifest.Save(append(existing, run.records...)); err != nil {
			return out, fmt.Errorf("save manifest: %w", err)
		}
		uc.logger.Debug("manifest", fmt.Sprintf("Saved %d created items to %s", len(run.records), uc.manifest.Path()))
	}

	if walkErr != nil {
		return out, walkErr
	}
	return out, nil
}

// createNode creates n and then its children.
// The only error returned is context cancellation, which stops the walk.
func (uc *CreateItems) createNode(ctx context.Context, run *createRun, n, parent *domain.Node, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	indent := strings.Repeat("  ", depth)
	itemType := uc.config.Types.Name(n.Kind)

	req := domain.CreateRequest{Title: n.Title, Type: itemType}
	if parent != nil && !run.linkSeparately {
		req.ParentID = parent.RemoteID
	}

	id, err := uc.backend.Create(ctx, req)
	if id <= 0 {
		if err == nil {
			err = fmt.Errorf("backend returned invalid id %d", id)
		}
		opErr := run.report.fail("create", n.Title, 0, err)
		uc.logger.Error("create", indent+opErr.Error())
		uc.skipChildren(run, n, indent)
		return nil
	}

	n.RemoteID = &id
	run.report.Created++
	uc.logger.Info("create", fmt.Sprintf("%sCreated %s: %s (ID: %d)", indent, n.Kind, n.Title, id))

	record := domain.Record{Title: n.Title, Type: itemType, RemoteID: id, RunID: uc.runID}
	switch {
	case err != nil:
		// Created but the parent relation failed; keep the record so delete finds it
		opErr := run.report.fail("link", n.Title, id, err)
		uc.logger.Error("link", indent+opErr.Error())
	case parent == nil:
	case req.ParentID != nil:
		parentID := *req.ParentID
		record.ParentRemoteID = &parentID
		run.report.Linked++
	default:
		if linkErr := uc.backend.Link(ctx, *parent.RemoteID, id); linkErr != nil {
			opErr := run.report.fail("link", n.Title, id, linkErr)
			uc.logger.Error("link", indent+opErr.Error())
		} else {
			parentID := *parent.RemoteID
			record.ParentRemoteID = &parentID
			run.report.Linked++
			uc.logger.Debug("link", fmt.Sprintf("%sLinked %d to parent %d", indent, id, parentID))
		}
	}
	run.records = append(run.records, record)

	for _, c := range n.Children {
		if err := uc.createNode(ctx, run, c, n, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// skipChildren reports every descendant of a node that was not created.
func (uc *CreateItems) skipChildren(run *createRun, n *domain.Node, indent string) {
	descendants := n.Descendants()
	if len(descendants) == 0 {
		return
	}
	uc.logger.Warn("create", fmt.Sprintf("%sFailed to create %s. Skipping %d child items.", indent, n.Kind, len(descendants)))
	for _, d := range descendants {
		run.report.Skipped++
		run.report.fail("create", d.Title, 0, domain.ErrParentNotCreated)
	}
}
