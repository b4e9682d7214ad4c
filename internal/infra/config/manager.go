package config

import (
	"os"
	"path/filepath"

	"github.com/runoshun/boards-seed/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	projectPath   string // Project config file
	globalConfDir string // Path to global config directory (e.g., ~/.config/boards-seed)
}

// NewManager creates a new Manager for the project in dir.
// A non-empty configPath replaces the project config path.
func NewManager(dir, configPath string) *Manager {
	return NewManagerWithGlobalDir(dir, configPath, defaultGlobalConfigDir())
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dir, configPath, globalConfDir string) *Manager {
	path := configPath
	if path == "" {
		path = domain.ProjectConfigPath(dir)
	}
	return &Manager{
		projectPath:   path,
		globalConfDir: globalConfDir,
	}
}

// ProjectConfigInfo returns information about the project config file.
func (m *Manager) ProjectConfigInfo() domain.ConfigInfo {
	return m.configInfo(m.projectPath)
}

// GlobalConfigInfo returns information about the global config file.
func (m *Manager) GlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return m.configInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

// configInfo reads a config file and returns its info.
func (m *Manager) configInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitProjectConfig creates the project config file from the commented template.
func (m *Manager) InitProjectConfig(cfg *domain.Config) error {
	if _, err := os.Stat(m.projectPath); err == nil {
		return domain.ErrConfigExists
	}

	if dir := filepath.Dir(m.projectPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}

	content := domain.RenderConfigTemplate(cfg)
	return os.WriteFile(m.projectPath, []byte(content), 0o600)
}
