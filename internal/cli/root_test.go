package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/runoshun/boards-seed/internal/app"
	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/runoshun/boards-seed/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliFixture struct {
	backend       *testutil.MockBackend
	manifest      *testutil.MockManifestStore
	loader        *testutil.MockHierarchyLoader
	configLoader  *testutil.MockConfigLoader
	configManager *testutil.MockConfigManager
	config        *domain.Config
	opts          app.Options
}

func newCLIFixture() *cliFixture {
	return &cliFixture{
		backend:       testutil.NewMockBackend(),
		manifest:      &testutil.MockManifestStore{},
		loader:        &testutil.MockHierarchyLoader{Hierarchy: testutil.SampleHierarchy()},
		configLoader:  testutil.NewMockConfigLoader(),
		configManager: &testutil.MockConfigManager{},
		config:        domain.NewDefaultConfig(),
	}
}

func (f *cliFixture) factory(opts app.Options) (*app.Container, error) {
	f.opts = opts
	return app.NewWithDeps(app.Deps{
		Backend:       f.backend,
		Manifest:      f.manifest,
		Hierarchy:     f.loader,
		ConfigLoader:  f.configLoader,
		ConfigManager: f.configManager,
		Config:        f.config,
	}), nil
}

// run executes the root command with args and returns stdout and stderr.
func (f *cliFixture) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(f.factory, "test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Help_ListsGroups(t *testing.T) {
	f := newCLIFixture()

	stdout, _, err := f.run("--help")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Work Items:")
	assert.Contains(t, stdout, "Setup Commands:")
	assert.Contains(t, stdout, "create")
	assert.Contains(t, stdout, "delete")
}

func TestNewRootCommand_PassesGlobalFlags(t *testing.T) {
	f := newCLIFixture()

	_, _, err := f.run("--debug", "--config", "alt.toml", "manifest")

	require.NoError(t, err)
	assert.True(t, f.opts.Debug)
	assert.Equal(t, "alt.toml", f.opts.ConfigPath)
	assert.Equal(t, ".", f.opts.Dir)
	assert.NotNil(t, f.opts.Console)
	assert.False(t, f.opts.AllowMissingConfig)
}

func TestNewRootCommand_ConfigInitAllowsMissingConfig(t *testing.T) {
	f := newCLIFixture()

	_, _, err := f.run("--config", "custom.toml", "config", "--init")

	require.NoError(t, err)
	assert.True(t, f.opts.AllowMissingConfig)
	assert.Equal(t, "custom.toml", f.opts.ConfigPath)
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	f := newCLIFixture()
	f.config.Warnings = []string{"unknown key: colour"}

	_, stderr, err := f.run("manifest")

	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: unknown key: colour")
}

func TestNewRootCommand_FactoryError(t *testing.T) {
	wantErr := errors.New("load config: broken")
	root := NewRootCommand(func(app.Options) (*app.Container, error) {
		return nil, wantErr
	}, "test")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"manifest"})

	err := root.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, wantErr)
}

func TestExecute_ReturnsCommandError(t *testing.T) {
	f := newCLIFixture()
	f.manifest.LoadErr = errors.New("corrupt")
	called := false
	factory := func(opts app.Options) (*app.Container, error) {
		called = true
		return f.factory(opts)
	}

	err := Execute(context.Background(), factory, "test", []string{"manifest"})

	assert.True(t, called)
	assert.ErrorContains(t, err, "corrupt")
}

func TestExecute_NoContainerOnHelp(t *testing.T) {
	called := false
	factory := func(app.Options) (*app.Container, error) {
		called = true
		return nil, errors.New("unexpected")
	}

	err := Execute(context.Background(), factory, "test", []string{"config", "--help"})

	require.NoError(t, err)
	assert.False(t, called)
}

func TestNewRootCommand_Version(t *testing.T) {
	f := newCLIFixture()

	stdout, _, err := f.run("--version")

	require.NoError(t, err)
	assert.Contains(t, stdout, "test")
}
