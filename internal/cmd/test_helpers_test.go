package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/pulumi-compose/pulumi-compose/internal/config"
	"github.com/pulumi-compose/pulumi-compose/internal/docker"
)

// resetFlags restores every flag to its default so cobra state does not
// leak between tests.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// executeCmd executes the root command with the given args and returns the output.
// This handles proper state reset between test executions.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeCmdWithInput(t, nil, args...)
}

// executeCmdWithInput is executeCmd with stdin replaced by in.
func executeCmdWithInput(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	if in == nil {
		in = strings.NewReader("")
	}

	buf := new(bytes.Buffer)
	// Important: Set args BEFORE setting output buffers
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

// workspace chdirs into a fresh temp directory with no config in reach.
func workspace(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
	require.NoError(t, os.Chdir(dir))

	t.Setenv(config.EnvVar, "")
	return dir
}

func mkdirFor(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// fakeDocker is a DockerAPI for command tests.
type fakeDocker struct {
	pingErr error
	local   map[string]bool
	closed  int
}

func (f *fakeDocker) Ping(ctx context.Context) (types.Ping, error) {
	if f.pingErr != nil {
		return types.Ping{}, f.pingErr
	}
	return types.Ping{APIVersion: "1.45"}, nil
}

func (f *fakeDocker) ImageInspect(ctx context.Context, ref string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	if f.local[ref] {
		return image.InspectResponse{ID: "sha256:" + ref}, nil
	}
	return image.InspectResponse{}, fmt.Errorf("No such image: %s: %w", ref, errdefs.ErrNotFound)
}

func (f *fakeDocker) Close() error {
	f.closed++
	return nil
}

// useFakeDocker routes command docker clients to fake.
func useFakeDocker(t *testing.T, fake *fakeDocker) {
	t.Helper()
	original := newDockerClient
	newDockerClient = func() (*docker.Client, error) {
		return docker.NewClientWithAPI(fake), nil
	}
	t.Cleanup(func() { newDockerClient = original })
}
