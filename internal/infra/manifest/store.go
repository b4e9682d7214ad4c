// Package manifest provides a YAML file-based implementation of domain.ManifestStore.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/runoshun/boards-seed/internal/domain"
	"gopkg.in/yaml.v3"
)

// Ensure Store implements domain.ManifestStore.
var _ domain.ManifestStore = (*Store)(nil)

// recordData is the YAML representation of a record.
// Field order is the key order in the file.
type recordData struct {
	Title          string `yaml:"title"`
	Type           string `yaml:"type"`
	RemoteID       int    `yaml:"remoteId"`
	ParentRemoteID *int   `yaml:"parentRemoteId"`
	RunID          string `yaml:"runId,omitempty"`
}

// legacyFile is the older manifest layout: a mapping with a created_items
// list whose ids are strings and may be empty for failed creations.
type legacyFile struct {
	CreatedItems []legacyRecord `yaml:"created_items"`
}

type legacyRecord struct {
	ID    *string `yaml:"id"`
	Title string  `yaml:"title"`
	Type  string  `yaml:"type"`
}

// Store implements domain.ManifestStore using a YAML file.
// There is no locking: one run at a time is assumed.
type Store struct {
	path string
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the records in creation order.
// A missing or empty file yields an empty slice.
func (s *Store) Load() ([]domain.Record, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Record{}, nil
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return []domain.Record{}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(root.Content) == 0 {
		return []domain.Record{}, nil
	}

	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		var data []recordData
		if err := root.Content[0].Decode(&data); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		return toDomain(data), nil
	case yaml.MappingNode:
		var legacy legacyFile
		if err := root.Content[0].Decode(&legacy); err != nil {
			return nil, fmt.Errorf("parse manifest: %w", err)
		}
		return fromLegacy(legacy)
	default:
		return nil, fmt.Errorf("parse manifest: unexpected top-level %s", kindName(root.Content[0].Kind))
	}
}

// Save overwrites the manifest with records.
func (s *Store) Save(records []domain.Record) error {
	data := make([]recordData, 0, len(records))
	for _, r := range records {
		data = append(data, recordData{
			Title:          r.Title,
			Type:           r.Type,
			RemoteID:       r.RemoteID,
			ParentRemoteID: r.ParentRemoteID,
			RunID:          r.RunID,
		})
	}

	content, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Remove deletes the manifest file.
func (s *Store) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove manifest: %w", err)
	}
	return nil
}

func toDomain(data []recordData) []domain.Record {
	records := make([]domain.Record, 0, len(data))
	for _, d := range data {
		records = append(records, domain.Record{
			Title:          d.Title,
			Type:           d.Type,
			RemoteID:       d.RemoteID,
			ParentRemoteID: d.ParentRemoteID,
			RunID:          d.RunID,
		})
	}
	return records
}

// fromLegacy converts legacy entries, dropping those that never got an ID.
func fromLegacy(legacy legacyFile) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(legacy.CreatedItems))
	for i, item := range legacy.CreatedItems {
		if item.ID == nil || strings.TrimSpace(*item.ID) == "" {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(*item.ID))
		if err != nil {
			return nil, fmt.Errorf("parse manifest: created_items[%d]: invalid id %q", i, *item.ID)
		}
		records = append(records, domain.Record{
			Title:    item.Title,
			Type:     item.Type,
			RemoteID: id,
		})
	}
	return records, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "node"
	}
}
