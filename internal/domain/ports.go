package domain

import (
	"context"
	"time"
)

// WorkItemBackend creates, links, deletes and finds work items in the remote tracker.
type WorkItemBackend interface {
	// Create creates a work item and returns its remote ID.
	// When req.ParentID is set the backend also links the new item to it.
	Create(ctx context.Context, req CreateRequest) (int, error)

	// Link makes parentID the parent of childID.
	Link(ctx context.Context, parentID, childID int) error

	// Delete removes a work item.
	Delete(ctx context.Context, id int) error

	// SearchByTitle returns the IDs of work items of the given type with an exact title match.
	// An empty result is not an error.
	SearchByTitle(ctx context.Context, title, itemType string) ([]int, error)

	// LinksOnCreate reports whether Create links to the parent in the same remote call.
	LinksOnCreate() bool
}

// CreateRequest describes a work item to create.
type CreateRequest struct {
	ParentID *int   // Optional parent to link to
	Title    string // Work item title
	Type     string // Backend work item type name
}

// HierarchyLoader reads a work item hierarchy from a file.
type HierarchyLoader interface {
	// Load parses the file at path. Parse failures are returned as *ParseError.
	Load(path string) (*Hierarchy, error)
}

// ManifestStore persists the records of created work items.
type ManifestStore interface {
	// Load returns the stored records in creation order, or an empty slice if none exist.
	Load() ([]Record, error)

	// Save overwrites the manifest with records.
	Save(records []Record) error

	// Remove deletes the manifest. Removing a missing manifest is not an error.
	Remove() error

	// Path returns the manifest location for display.
	Path() string
}

// CommandExecutor runs external commands.
type CommandExecutor interface {
	// Execute runs the command and returns its standard output.
	// A non-zero exit is returned as an error that includes standard error.
	Execute(ctx context.Context, cmd *ExecCommand) ([]byte, error)
}

// Logger writes operation log lines.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards all log lines.
type NopLogger struct{}

func (NopLogger) Debug(_, _ string) {}
func (NopLogger) Info(_, _ string)  {}
func (NopLogger) Warn(_, _ string)  {}
func (NopLogger) Error(_, _ string) {}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + project).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager inspects and initializes configuration files.
type ConfigManager interface {
	// ProjectConfigInfo returns information about the project config file.
	ProjectConfigInfo() ConfigInfo

	// GlobalConfigInfo returns information about the global config file.
	GlobalConfigInfo() ConfigInfo

	// InitProjectConfig writes a commented template to the project config path.
	InitProjectConfig(cfg *Config) error
}

// ConfigInfo describes a configuration file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
