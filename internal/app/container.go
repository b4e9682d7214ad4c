// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/infra/azcli"
	"github.com/runoshun/boards-seed/internal/infra/azrest"
	"github.com/runoshun/boards-seed/internal/infra/config"
	"github.com/runoshun/boards-seed/internal/infra/executor"
	"github.com/runoshun/boards-seed/internal/infra/hierarchy"
	"github.com/runoshun/boards-seed/internal/infra/logging"
	"github.com/runoshun/boards-seed/internal/infra/manifest"
	"github.com/runoshun/boards-seed/internal/usecase"
)

// Options selects where the container looks for configuration.
type Options struct {
	Console    io.Writer // Log mirror; defaults to os.Stderr
	Dir        string    // Working directory; relative file paths resolve against it
	ConfigPath string    // Explicit project config (--config)
	Debug      bool      // Force debug logging (--debug)

	// AllowMissingConfig accepts a ConfigPath that does not exist yet (config --init).
	AllowMissingConfig bool
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Manifest      domain.ManifestStore
	Hierarchy     domain.HierarchyLoader
	Executor      domain.CommandExecutor
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Built on first use so commands that never touch the backend
	// work without credentials.
	backend domain.WorkItemBackend
	closer  io.Closer
	getenv  func(string) string

	// Configuration
	AppConfig *domain.Config
	RunID     string // Short run identifier written to logs and manifest records
	Dir       string
}

// New creates a new Container for the project in opts.Dir.
func New(opts Options) (*Container, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	configLoader := config.NewLoader(dir, opts.ConfigPath)
	if opts.AllowMissingConfig {
		configLoader.AllowMissing()
	}
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	if opts.Debug {
		level = slog.LevelDebug
	}

	runID := NewRunID()
	logger := logging.New(logging.Options{
		Console: console,
		Path:    resolvePath(dir, appConfig.Files.Log),
		RunID:   runID,
		Level:   level,
		Color:   isTerminal(console),
	})

	return &Container{
		Manifest:      manifest.New(resolvePath(dir, appConfig.Files.Manifest)),
		Hierarchy:     hierarchy.NewLoader(),
		Executor:      executor.NewClient(),
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dir, opts.ConfigPath),
		Logger:        logger,
		closer:        logger,
		getenv:        os.Getenv,
		AppConfig:     appConfig,
		RunID:         runID,
		Dir:           dir,
	}, nil
}

// Deps holds the dependencies NewWithDeps wires in.
type Deps struct {
	Backend       domain.WorkItemBackend
	Manifest      domain.ManifestStore
	Hierarchy     domain.HierarchyLoader
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger
	Config        *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(deps Deps) *Container {
	cfg := deps.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		backend:       deps.Backend,
		Manifest:      deps.Manifest,
		Hierarchy:     deps.Hierarchy,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Logger:        logger,
		getenv:        os.Getenv,
		AppConfig:     cfg,
		RunID:         "test0000",
		Dir:           ".",
	}
}

// NewRunID returns the first eight hex digits of a random UUID.
func NewRunID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Backend returns the configured work item backend, building it on first use.
func (c *Container) Backend() (domain.WorkItemBackend, error) {
	if c.backend != nil {
		return c.backend, nil
	}

	bc := c.AppConfig.Backend
	switch bc.Kind {
	case domain.BackendREST:
		b, err := azrest.New(c.Logger, azrest.Options{
			Organization: bc.Organization,
			Project:      bc.Project,
			Token:        c.getenv(bc.TokenEnv),
			Timeout:      bc.Timeout(),
		})
		if err != nil {
			if errors.Is(err, domain.ErrMissingToken) {
				return nil, fmt.Errorf("%w: set %s", err, bc.TokenEnv)
			}
			return nil, err
		}
		c.backend = b
	case domain.BackendCLI, "":
		c.backend = azcli.New(c.Executor, c.Logger, azcli.Options{
			Program:      bc.AzPath,
			Organization: bc.Organization,
			Project:      bc.Project,
			Dir:          c.Dir,
		})
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, bc.Kind)
	}

	c.Logger.Debug("app", fmt.Sprintf("Using %s backend", bc.Kind))
	return c.backend, nil
}

// InputPath returns the hierarchy file to read: arg when given, otherwise
// the configured default.
func (c *Container) InputPath(arg string) string {
	if arg != "" {
		return arg
	}
	return resolvePath(c.Dir, c.AppConfig.Files.Input)
}

// Close releases the log file.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// CreateItemsUseCase returns a new CreateItems use case.
// A dry run does not need the backend.
func (c *Container) CreateItemsUseCase(dryRun bool) (*usecase.CreateItems, error) {
	var backend domain.WorkItemBackend
	if !dryRun {
		b, err := c.Backend()
		if err != nil {
			return nil, err
		}
		backend = b
	}
	return usecase.NewCreateItems(backend, c.Hierarchy, c.Manifest, c.Logger, c.AppConfig, c.RunID), nil
}

// DeleteItemsUseCase returns a new DeleteItems use case.
func (c *Container) DeleteItemsUseCase() (*usecase.DeleteItems, error) {
	backend, err := c.Backend()
	if err != nil {
		return nil, err
	}
	return usecase.NewDeleteItems(backend, c.Hierarchy, c.Manifest, c.Logger, c.AppConfig), nil
}

// ShowManifestUseCase returns a new ShowManifest use case.
func (c *Container) ShowManifestUseCase() *usecase.ShowManifest {
	return usecase.NewShowManifest(c.Manifest)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "." {
		return path
	}
	return filepath.Join(dir, path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
