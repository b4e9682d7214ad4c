package executor

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/runoshun/boards-seed/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(script, dir string) *domain.ExecCommand {
	return domain.NewCommand("sh", []string{"-c", script}, dir)
}

func TestClient_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping test on Windows")
	}

	client := NewClient()
	ctx := context.Background()

	t.Run("returns stdout", func(t *testing.T) {
		output, err := client.Execute(ctx, shell("echo hello", ""))
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(output))
	})

	t.Run("executes command in specified directory", func(t *testing.T) {
		dir := t.TempDir()
		output, err := client.Execute(ctx, shell("pwd", dir))
		require.NoError(t, err)
		assert.Contains(t, strings.TrimSpace(string(output)), dir)
	})

	t.Run("keeps stderr out of stdout on success", func(t *testing.T) {
		output, err := client.Execute(ctx, shell("echo warning >&2; echo 42", ""))
		require.NoError(t, err)
		assert.Equal(t, "42\n", string(output))
	})

	t.Run("includes stderr in error on failure", func(t *testing.T) {
		_, err := client.Execute(ctx, shell("echo 'TF401232: not found' >&2; exit 1", ""))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TF401232: not found")
		assert.Contains(t, err.Error(), "exit status 1")
	})

	t.Run("returns error for non-existent command", func(t *testing.T) {
		_, err := client.Execute(ctx, domain.NewCommand("nonexistent-command-xyz", nil, ""))
		require.Error(t, err)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := client.Execute(cancelled, shell("sleep 5", ""))
		require.Error(t, err)
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient()
	assert.NotNil(t, client)
}
