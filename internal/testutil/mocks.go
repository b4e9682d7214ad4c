// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/runoshun/boards-seed/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockItem is a work item held by MockBackend.
type MockItem struct {
	ParentID *int
	Title    string
	Type     string
}

// MockBackend is an in-memory test double for domain.WorkItemBackend.
// Calls records every operation as "create:<title>", "link:<parent>-><child>",
// "delete:<id>" or "search:<type>:<title>".
// Fields are ordered to minimize memory padding.
type MockBackend struct {
	Items        map[int]*MockItem
	CreateErr    map[string]error // keyed by title
	LinkErr      map[int]error    // keyed by child ID
	DeleteErr    map[int]error    // keyed by ID
	SearchErr    map[string]error // keyed by title
	Calls        []string
	Created      []int // IDs in creation order
	Deleted      []int // IDs in deletion order
	NextID       int
	LinkOnCreate bool
}

// NewMockBackend creates a MockBackend whose IDs start at 100.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Items:     make(map[int]*MockItem),
		CreateErr: make(map[string]error),
		LinkErr:   make(map[int]error),
		DeleteErr: make(map[int]error),
		SearchErr: make(map[string]error),
		NextID:    100,
	}
}

// Seed adds an existing item without recording a call.
func (m *MockBackend) Seed(id int, title, itemType string) {
	m.Items[id] = &MockItem{Title: title, Type: itemType}
}

// LinksOnCreate returns the configured capability.
func (m *MockBackend) LinksOnCreate() bool {
	return m.LinkOnCreate
}

// Create stores a new item.
func (m *MockBackend) Create(_ context.Context, req domain.CreateRequest) (int, error) {
	m.Calls = append(m.Calls, "create:"+req.Title)
	if err := m.CreateErr[req.Title]; err != nil {
		return 0, err
	}
	id := m.NextID
	m.NextID++
	item := &MockItem{Title: req.Title, Type: req.Type}
	if req.ParentID != nil {
		parent := *req.ParentID
		item.ParentID = &parent
	}
	m.Items[id] = item
	m.Created = append(m.Created, id)
	return id, nil
}

// Link sets the parent of an item.
func (m *MockBackend) Link(_ context.Context, parentID, childID int) error {
	m.Calls = append(m.Calls, fmt.Sprintf("link:%d->%d", parentID, childID))
	if err := m.LinkErr[childID]; err != nil {
		return err
	}
	item, ok := m.Items[childID]
	if !ok {
		return fmt.Errorf("work item %d does not exist", childID)
	}
	item.ParentID = &parentID
	return nil
}

// Delete removes an item.
func (m *MockBackend) Delete(_ context.Context, id int) error {
	m.Calls = append(m.Calls, fmt.Sprintf("delete:%d", id))
	if err := m.DeleteErr[id]; err != nil {
		return err
	}
	if _, ok := m.Items[id]; !ok {
		return fmt.Errorf("work item %d does not exist", id)
	}
	delete(m.Items, id)
	m.Deleted = append(m.Deleted, id)
	return nil
}

// SearchByTitle returns matching IDs in ascending order.
func (m *MockBackend) SearchByTitle(_ context.Context, title, itemType string) ([]int, error) {
	m.Calls = append(m.Calls, "search:"+itemType+":"+title)
	if err := m.SearchErr[title]; err != nil {
		return nil, err
	}
	var ids []int
	for id := range m.Items {
		item := m.Items[id]
		if item.Title == title && item.Type == itemType {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// MockManifestStore is a test double for domain.ManifestStore.
// Fields are ordered to minimize memory padding.
type MockManifestStore struct {
	LoadErr   error
	SaveErr   error
	Records   []domain.Record
	SaveCalls int
	Removed   bool
}

// Load returns a copy of the stored records.
func (m *MockManifestStore) Load() ([]domain.Record, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return append([]domain.Record{}, m.Records...), nil
}

// Save replaces the stored records.
func (m *MockManifestStore) Save(records []domain.Record) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Records = append([]domain.Record{}, records...)
	m.Removed = false
	return nil
}

// Remove clears the stored records.
func (m *MockManifestStore) Remove() error {
	m.Records = nil
	m.Removed = true
	return nil
}

// Path returns a fixed path.
func (m *MockManifestStore) Path() string {
	return domain.DefaultManifestFile
}

// MockHierarchyLoader is a test double for domain.HierarchyLoader.
type MockHierarchyLoader struct {
	Hierarchy  *domain.Hierarchy
	Err        error
	LoadedPath string
	Calls      int
}

// Load returns the configured hierarchy or error.
func (m *MockHierarchyLoader) Load(path string) (*domain.Hierarchy, error) {
	m.Calls++
	m.LoadedPath = path
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Hierarchy, nil
}

// MockExecutor is a test double for domain.CommandExecutor.
// Handler decides the result for each command; without one every command
// succeeds with empty output.
type MockExecutor struct {
	Handler  func(cmd *domain.ExecCommand) ([]byte, error)
	Commands []*domain.ExecCommand
}

// Execute records the command and delegates to Handler.
func (m *MockExecutor) Execute(_ context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	m.Commands = append(m.Commands, cmd)
	if m.Handler == nil {
		return nil, nil
	}
	return m.Handler(cmd)
}

// LogEntry is a line captured by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
}

// MockLogger captures log lines.
type MockLogger struct {
	Entries []LogEntry
}

func (m *MockLogger) add(level, category, msg string) {
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg})
}

// Debug captures a debug line.
func (m *MockLogger) Debug(category, msg string) { m.add("DEBUG", category, msg) }

// Info captures an info line.
func (m *MockLogger) Info(category, msg string) { m.add("INFO", category, msg) }

// Warn captures a warning line.
func (m *MockLogger) Warn(category, msg string) { m.add("WARN", category, msg) }

// Error captures an error line.
func (m *MockLogger) Error(category, msg string) { m.add("ERROR", category, msg) }

// Messages returns captured messages at the given level.
func (m *MockLogger) Messages(level string) []string {
	var out []string
	for _, e := range m.Entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config    *domain.Config
	LoadErr   error
	GlobalErr error
}

// NewMockConfigLoader returns a loader yielding the default config.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{Config: domain.NewDefaultConfig()}
}

// Load returns the configured config.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured config.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.GlobalErr != nil {
		return nil, m.GlobalErr
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr     error
	Project     domain.ConfigInfo
	Global      domain.ConfigInfo
	InitCalled  bool
	InitWritten string
}

// ProjectConfigInfo returns the configured project info.
func (m *MockConfigManager) ProjectConfigInfo() domain.ConfigInfo {
	return m.Project
}

// GlobalConfigInfo returns the configured global info.
func (m *MockConfigManager) GlobalConfigInfo() domain.ConfigInfo {
	return m.Global
}

// InitProjectConfig records the call and the rendered template.
func (m *MockConfigManager) InitProjectConfig(cfg *domain.Config) error {
	m.InitCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	m.InitWritten = domain.RenderConfigTemplate(cfg)
	return nil
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// SampleHierarchy returns one Epic with one Feature holding two Backlog Items.
func SampleHierarchy() *domain.Hierarchy {
	epic := domain.NewEpic("Epic")
	feature, _ := epic.AddChild("Feature")
	_, _ = feature.AddChild("Item1")
	_, _ = feature.AddChild("Item2")
	return &domain.Hierarchy{Epics: []*domain.Node{epic}}
}
