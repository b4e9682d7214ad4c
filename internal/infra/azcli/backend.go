// Package azcli implements domain.WorkItemBackend by shelling out to the Azure CLI
// (`az boards`). The CLI session must already be authenticated.
package azcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/runoshun/boards-seed/internal/domain"
)

// Ensure Backend implements domain.WorkItemBackend.
var _ domain.WorkItemBackend = (*Backend)(nil)

// Options configures a Backend.
type Options struct {
	Program      string // az executable, defaults to "az"
	Organization string // Passed as --org when set
	Project      string // Passed as --project when set
	Dir          string // Working directory for az
}

// Backend runs az boards commands through a domain.CommandExecutor.
type Backend struct {
	exec   domain.CommandExecutor
	logger domain.Logger
	opts   Options
}

// New creates a new Backend.
func New(exec domain.CommandExecutor, logger domain.Logger, opts Options) *Backend {
	if opts.Program == "" {
		opts.Program = domain.DefaultAzPath
	}
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Backend{exec: exec, logger: logger, opts: opts}
}

// LinksOnCreate reports false: az boards work-item create has no parent flag,
// so Create adds the relation with a second command when a parent is given.
func (b *Backend) LinksOnCreate() bool {
	return false
}

// Create creates a work item and returns its ID.
func (b *Backend) Create(ctx context.Context, req domain.CreateRequest) (int, error) {
	args := []string{
		"boards", "work-item", "create",
		"--type", req.Type,
		"--title", req.Title,
		"--query", "id",
		"-o", "tsv",
	}
	out, err := b.run(ctx, b.withScope(args, true))
	if err != nil {
		return 0, err
	}

	id, err := parseID(out)
	if err != nil {
		return 0, err
	}

	if req.ParentID != nil {
		if err := b.Link(ctx, *req.ParentID, id); err != nil {
			return id, fmt.Errorf("work item %d created but not linked: %w", id, err)
		}
	}
	return id, nil
}

// Link adds a Parent relation from childID to parentID.
func (b *Backend) Link(ctx context.Context, parentID, childID int) error {
	args := []string{
		"boards", "work-item", "relation", "add",
		"--id", strconv.Itoa(childID),
		"--relation-type", "Parent",
		"--target-id", strconv.Itoa(parentID),
	}
	// relation add accepts --org but not --project
	_, err := b.run(ctx, b.withScope(args, false))
	return err
}

// Delete permanently removes a work item without prompting.
func (b *Backend) Delete(ctx context.Context, id int) error {
	args := []string{
		"boards", "work-item", "delete",
		"--id", strconv.Itoa(id),
		"--yes",
	}
	_, err := b.run(ctx, b.withScope(args, true))
	return err
}

// queryResult is one row of `az boards query -o json`.
type queryResult struct {
	ID int `json:"id"`
}

// SearchByTitle runs a WIQL query for an exact title and type match.
func (b *Backend) SearchByTitle(ctx context.Context, title, itemType string) ([]int, error) {
	args := []string{
		"boards", "query",
		"--wiql", domain.TitleQuery(itemType, title),
		"-o", "json",
	}
	out, err := b.run(ctx, b.withScope(args, true))
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}

	var rows []queryResult
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		if r.ID > 0 {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

// withScope appends --org and, if allowed, --project.
func (b *Backend) withScope(args []string, project bool) []string {
	if b.opts.Organization != "" {
		args = append(args, "--org", b.opts.Organization)
	}
	if project && b.opts.Project != "" {
		args = append(args, "--project", b.opts.Project)
	}
	return args
}

func (b *Backend) run(ctx context.Context, args []string) ([]byte, error) {
	b.logger.Debug("az", b.opts.Program+" "+strings.Join(args, " "))
	out, err := b.exec.Execute(ctx, domain.NewCommand(b.opts.Program, args, b.opts.Dir))
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parseID parses the tsv output of `--query id -o tsv`.
func parseID(out []byte) (int, error) {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0, errors.New("az returned no work item id")
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("unexpected work item id %q", s)
	}
	return id, nil
}
