package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config_template.toml
var configTemplateContent string

// Directory and file names for boards-seed.
const (
	AppDirName            = "boards-seed"        // Directory name under the user config home
	ConfigFileName        = "config.toml"        // Global config file name
	ProjectConfigFileName = ".boards-seed.toml"  // Config file name in the working directory
	DefaultInputFile      = "input.yaml"         // Hierarchy read when no file argument is given
	DefaultManifestFile   = "created_items.yaml" // Record of created work items
	DefaultLogFile        = "devops.log"         // Append-only operation log
)

// Backend kinds.
const (
	BackendCLI  = "cli"  // Shell out to the az CLI
	BackendREST = "rest" // Call the Azure DevOps REST API directly
)

// Link modes decide whether parent links are made by Create or by a separate Link call.
const (
	LinkModeAuto     = "auto"     // Ask the backend
	LinkModeCreate   = "create"   // Create links to the parent itself
	LinkModeSeparate = "separate" // Always call Link after Create
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultAzPath         = "az"
	DefaultTokenEnv       = "AZURE_DEVOPS_EXT_PAT"
	DefaultTimeoutSeconds = 30
)

// Config represents the application configuration.
type Config struct {
	Backend  BackendConfig `toml:"backend"`
	Types    TypesConfig   `toml:"types"`
	Files    FilesConfig   `toml:"files"`
	Log      LogConfig     `toml:"log"`
	Warnings []string      `toml:"-"` // Unknown keys found while loading
}

// BackendConfig holds settings from the [backend] section.
type BackendConfig struct {
	Kind           string `toml:"kind"`            // cli or rest
	LinkMode       string `toml:"link_mode"`       // auto, create or separate
	Organization   string `toml:"organization"`    // e.g. https://dev.azure.com/contoso
	Project        string `toml:"project"`         // Project name
	AzPath         string `toml:"az_path"`         // az executable (cli backend)
	TokenEnv       string `toml:"token_env"`       // Environment variable holding the PAT (rest backend)
	TimeoutSeconds int    `toml:"timeout_seconds"` // HTTP timeout (rest backend)
}

// Timeout returns the configured HTTP timeout.
func (b BackendConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// TypesConfig maps hierarchy levels to backend work item type names.
// Names depend on the project's process template.
type TypesConfig struct {
	Epic        string `toml:"epic"`
	Feature     string `toml:"feature"`
	BacklogItem string `toml:"backlog_item"`
}

// Name returns the backend type name for a hierarchy level.
func (t TypesConfig) Name(k Kind) string {
	switch k {
	case KindEpic:
		return t.Epic
	case KindFeature:
		return t.Feature
	case KindBacklogItem:
		return t.BacklogItem
	default:
		return k.String()
	}
}

// FilesConfig holds default file locations from the [files] section.
type FilesConfig struct {
	Input    string `toml:"input"`
	Manifest string `toml:"manifest"`
	Log      string `toml:"log"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Kind:           BackendCLI,
			LinkMode:       LinkModeAuto,
			AzPath:         DefaultAzPath,
			TokenEnv:       DefaultTokenEnv,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Types: TypesConfig{
			Epic:        "Epic",
			Feature:     "Feature",
			BacklogItem: "Product Backlog Item",
		},
		Files: FilesConfig{
			Input:    DefaultInputFile,
			Manifest: DefaultManifestFile,
			Log:      DefaultLogFile,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Backend.Kind {
	case BackendCLI, BackendREST:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend.Kind)
	}
	switch c.Backend.LinkMode {
	case LinkModeAuto, LinkModeCreate, LinkModeSeparate:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLinkMode, c.Backend.LinkMode)
	}
	return nil
}

// LinkSeparately resolves the link mode against what the backend can do.
func (c *Config) LinkSeparately(backendLinksOnCreate bool) bool {
	switch c.Backend.LinkMode {
	case LinkModeSeparate:
		return true
	case LinkModeCreate:
		return false
	default:
		return !backendLinksOnCreate
	}
}

// ProjectConfigPath returns the project config path inside dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName)
}

// GlobalAppDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalAppDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// RenderConfigTemplate renders a commented config file showing the values of cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl, err := template.New("config").
		Delims("<<", ">>").
		Funcs(template.FuncMap{"toml": tomlString}).
		Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Should never happen with valid data
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}

// tomlString renders s as a TOML string value, quoted and escaped as needed.
func tomlString(s string) (string, error) {
	data, err := toml.Marshal(struct {
		V string `toml:"v"`
	}{V: s})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimPrefix(string(data), "v = "), "\n"), nil
}
