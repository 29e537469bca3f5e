package docker

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// DockerAPI defines the Docker client operations used for preflight checks.
// This interface enables mocking for unit tests without requiring a running Docker daemon.
type DockerAPI interface {
	// Ping tests the connection to the Docker daemon.
	Ping(ctx context.Context) (types.Ping, error)

	// ImageInspect returns details of a local image.
	ImageInspect(ctx context.Context, imageID string, opts ...client.ImageInspectOption) (image.InspectResponse, error)

	// Close closes the client connection.
	Close() error
}

// Verify that the Docker SDK client implements our interface.
var _ DockerAPI = (*client.Client)(nil)
