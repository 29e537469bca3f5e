package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/pulumi-compose/pulumi-compose/internal/docker"
)

const (
	dockerTimeout  = 10 * time.Second
	composeTimeout = 5 * time.Minute
)

// newDockerClient is replaced in tests.
var newDockerClient = docker.NewClient

// stdinIsTerminal reports whether stdin is a TTY. Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// withDockerClient executes a function with a Docker client, handling connection and cleanup.
func withDockerClient(ctx context.Context, fn func(ctx context.Context, client *docker.Client) error) error {
	client, err := newDockerClient()
	if err != nil {
		return fmt.Errorf("connect to docker: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, dockerTimeout)
	defer cancel()

	return fn(ctx, client)
}

// commandContext returns the command's context, or Background when unset.
func commandContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
