package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/client"
)

// Client wraps the Docker SDK client.
type Client struct {
	api DockerAPI
}

// NewClient creates a new Docker client connection.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	return &Client{api: cli}, nil
}

// NewClientWithAPI creates a new Docker client with a custom API implementation.
// This is primarily used for testing with mock implementations.
func NewClientWithAPI(api DockerAPI) *Client {
	return &Client{api: api}
}

// Ping tests the connection to the Docker daemon and returns its API version.
func (c *Client) Ping(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ping, err := c.api.Ping(ctx)
	if err != nil {
		return "", fmt.Errorf("ping docker: %w", err)
	}

	return ping.APIVersion, nil
}

// ImageExists reports whether ref is present in the local image store.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	_, err := c.api.ImageInspect(ctx, ref)
	if err == nil {
		return true, nil
	}
	if errdefs.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("inspect image %s: %w", ref, err)
}

// MissingImages returns the refs from images that are not present locally,
// in the order given.
func (c *Client) MissingImages(ctx context.Context, images []string) ([]string, error) {
	var missing []string
	for _, ref := range images {
		exists, err := c.ImageExists(ctx, ref)
		if err != nil {
			return nil, err
		}
		if !exists {
			missing = append(missing, ref)
		}
	}
	return missing, nil
}

// Close closes the Docker client connection.
func (c *Client) Close() error {
	if c.api != nil {
		return c.api.Close()
	}
	return nil
}
