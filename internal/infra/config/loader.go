// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/boards-seed/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	projectPath   string // Project config file (.boards-seed.toml or --config)
	globalConfDir string // Path to global config directory (e.g., ~/.config/boards-seed)
	explicit      bool   // projectPath was given with --config and must exist
}

// NewLoader creates a new Loader for the project in dir.
// A non-empty configPath replaces the project config and must exist.
func NewLoader(dir, configPath string) *Loader {
	return NewLoaderWithGlobalDir(dir, configPath, defaultGlobalConfigDir())
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dir, configPath, globalConfDir string) *Loader {
	l := &Loader{
		projectPath:   domain.ProjectConfigPath(dir),
		globalConfDir: globalConfDir,
	}
	if configPath != "" {
		l.projectPath = configPath
		l.explicit = true
	}
	return l
}

// AllowMissing lets Load fall back to defaults when an explicit config path
// does not exist yet, as when the file is about to be initialized.
func (l *Loader) AllowMissing() *Loader {
	l.explicit = false
	return l
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalAppDir(configHome)
}

// Load returns the merged configuration (defaults + global + project).
// Project config takes precedence over global config.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	project, err := l.loadFile(l.projectPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || l.explicit {
			return nil, err
		}
	}

	// Merge: default <- global <- project (later takes precedence)
	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if project != nil {
		base = mergeConfigs(base, project)
	}

	if err := base.Validate(); err != nil {
		return nil, err
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown key: %s", section))
			continue
		}
		switch section {
		case "backend":
			for k, v := range m {
				switch k {
				case "kind":
					setString(&res.Backend.Kind, v)
				case "link_mode":
					setString(&res.Backend.LinkMode, v)
				case "organization":
					setString(&res.Backend.Organization, v)
				case "project":
					setString(&res.Backend.Project, v)
				case "az_path":
					setString(&res.Backend.AzPath, v)
				case "token_env":
					setString(&res.Backend.TokenEnv, v)
				case "timeout_seconds":
					// TOML integers decode as int64
					if n, ok := v.(int64); ok {
						res.Backend.TimeoutSeconds = int(n)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [backend]: %s", k))
				}
			}
		case "types":
			for k, v := range m {
				switch k {
				case "epic":
					setString(&res.Types.Epic, v)
				case "feature":
					setString(&res.Types.Feature, v)
				case "backlog_item":
					setString(&res.Types.BacklogItem, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [types]: %s", k))
				}
			}
		case "files":
			for k, v := range m {
				switch k {
				case "input":
					setString(&res.Files.Input, v)
				case "manifest":
					setString(&res.Files.Manifest, v)
				case "log":
					setString(&res.Files.Log, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [files]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					setString(&res.Log.Level, v)
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

func setString(dst *string, v any) {
	if s, ok := v.(string); ok {
		*dst = s
	}
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := *base
	result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)

	overrideString(&result.Backend.Kind, override.Backend.Kind)
	overrideString(&result.Backend.LinkMode, override.Backend.LinkMode)
	overrideString(&result.Backend.Organization, override.Backend.Organization)
	overrideString(&result.Backend.Project, override.Backend.Project)
	overrideString(&result.Backend.AzPath, override.Backend.AzPath)
	overrideString(&result.Backend.TokenEnv, override.Backend.TokenEnv)
	if override.Backend.TimeoutSeconds > 0 {
		result.Backend.TimeoutSeconds = override.Backend.TimeoutSeconds
	}

	overrideString(&result.Types.Epic, override.Types.Epic)
	overrideString(&result.Types.Feature, override.Types.Feature)
	overrideString(&result.Types.BacklogItem, override.Types.BacklogItem)

	overrideString(&result.Files.Input, override.Files.Input)
	overrideString(&result.Files.Manifest, override.Files.Manifest)
	overrideString(&result.Files.Log, override.Files.Log)

	overrideString(&result.Log.Level, override.Log.Level)

	return &result
}

func overrideString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
