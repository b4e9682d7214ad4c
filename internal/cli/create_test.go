package cli

import (
	"errors"
	"testing"

	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommand_DefaultInput(t *testing.T) {
	f := newCLIFixture()

	stdout, _, err := f.run("create")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultInputFile, f.loader.LoadedPath)
	assert.Len(t, f.manifest.Records, 4)
	assert.Contains(t, stdout, "created: 4")
	assert.Contains(t, stdout, "linked:  3")
	assert.NotContains(t, stdout, "failed:")
}

func TestCreateCommand_InputArgument(t *testing.T) {
	f := newCLIFixture()

	_, _, err := f.run("create", "plan.yaml")

	require.NoError(t, err)
	assert.Equal(t, "plan.yaml", f.loader.LoadedPath)
}

func TestCreateCommand_DryRun(t *testing.T) {
	f := newCLIFixture()

	stdout, _, err := f.run("create", "--dry-run")

	require.NoError(t, err)
	assert.Empty(t, f.backend.Calls)
	assert.Zero(t, f.manifest.SaveCalls)
	assert.Contains(t, stdout, "Epic: Epic\n  Feature: Feature\n    Product Backlog Item: Item1\n    Product Backlog Item: Item2\n")
	assert.Contains(t, stdout, "4 work items would be created.")
}

func TestCreateCommand_PartialFailure(t *testing.T) {
	f := newCLIFixture()
	f.backend.CreateErr = map[string]error{"Feature": errors.New("quota exceeded")}

	stdout, _, err := f.run("create")

	require.ErrorIs(t, err, domain.ErrPartialFailure)
	assert.Contains(t, stdout, "created: 1")
	assert.Contains(t, stdout, "skipped: 2")
	assert.Contains(t, stdout, `create "Feature": quota exceeded`)
}

func TestCreateCommand_ParseError(t *testing.T) {
	f := newCLIFixture()
	f.loader.Err = &domain.ParseError{Path: "input.yaml", Err: domain.ErrMissingEpics}

	stdout, _, err := f.run("create")

	require.ErrorIs(t, err, domain.ErrMissingEpics)
	assert.Empty(t, stdout)
	assert.Empty(t, f.backend.Calls)
}

func TestCreateCommand_TooManyArgs(t *testing.T) {
	f := newCLIFixture()

	_, _, err := f.run("create", "a.yaml", "b.yaml")

	assert.Error(t, err)
	assert.Empty(t, f.backend.Calls)
}

func TestCreateCommand_UnderscoreFlag(t *testing.T) {
	f := newCLIFixture()

	_, _, err := f.run("create", "--dry_run")

	require.NoError(t, err)
	assert.Empty(t, f.backend.Calls)
}
