package docker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// ComposeClient handles docker compose operations on a generated file.
type ComposeClient struct {
	file string
}

// NewComposeClient creates a new compose client for the given compose file.
// Returns an error if the file does not exist.
func NewComposeClient(file string) (*ComposeClient, error) {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("compose file not found: %s", file)
		}
		return nil, fmt.Errorf("stat compose file: %w", err)
	}

	return &ComposeClient{file: file}, nil
}

// File returns the compose file path.
func (c *ComposeClient) File() string {
	return c.file
}

// Config validates the compose file with docker compose config.
func (c *ComposeClient) Config(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", c.args("config", "--quiet")...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker compose config: %w\n%s", err, output)
	}

	return nil
}

// Up starts the services defined in the compose file in the background.
func (c *ComposeClient) Up(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", c.args("up", "-d")...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker compose up: %w\n%s", err, output)
	}

	return nil
}

// Down stops and removes services defined in the compose file.
func (c *ComposeClient) Down(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", c.args("down")...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("docker compose down: %w\n%s", err, output)
	}

	return nil
}

func (c *ComposeClient) args(sub ...string) []string {
	return append([]string{"compose", "-f", c.file}, sub...)
}
