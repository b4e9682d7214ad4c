// Package executor provides command execution functionality.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/runoshun/boards-seed/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// Execute runs the command and returns its standard output.
// Standard error is kept apart so that warnings printed by the program do not
// corrupt parsed output; on failure it is folded into the returned error.
func (c *Client) Execute(ctx context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted backend code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	var stderr bytes.Buffer
	execCmd.Stderr = &stderr

	out, err := execCmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return out, fmt.Errorf("%s: %w", cmd.Program, err)
		}
		return out, fmt.Errorf("%s: %w: %s", cmd.Program, err, msg)
	}
	return out, nil
}
