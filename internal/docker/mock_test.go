package docker

import (
	"context"
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// Common test errors.
var (
	errMockPing    = errors.New("mock: ping failed")
	errMockInspect = errors.New("mock: image inspect failed")
)

// errImageNotFound mirrors the error the daemon returns for a missing image.
func errImageNotFound(ref string) error {
	return fmt.Errorf("No such image: %s: %w", ref, errdefs.ErrNotFound)
}

// MockDockerAPI is a mock implementation of DockerAPI for testing.
type MockDockerAPI struct {
	// Function overrides for each method
	PingFunc         func(ctx context.Context) (types.Ping, error)
	ImageInspectFunc func(ctx context.Context, imageID string) (image.InspectResponse, error)
	CloseFunc        func() error

	// Call tracking
	PingCalls         int
	ImageInspectCalls int
	CloseCalls        int
	Inspected         []string
}

// NewMockDockerAPI creates a new mock with default no-op implementations.
func NewMockDockerAPI() *MockDockerAPI {
	return &MockDockerAPI{}
}

// Ping implements DockerAPI.
func (m *MockDockerAPI) Ping(ctx context.Context) (types.Ping, error) {
	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return types.Ping{APIVersion: "1.45"}, nil
}

// ImageInspect implements DockerAPI.
func (m *MockDockerAPI) ImageInspect(ctx context.Context, imageID string, _ ...client.ImageInspectOption) (image.InspectResponse, error) {
	m.ImageInspectCalls++
	m.Inspected = append(m.Inspected, imageID)
	if m.ImageInspectFunc != nil {
		return m.ImageInspectFunc(ctx, imageID)
	}
	return image.InspectResponse{ID: "sha256:" + imageID}, nil
}

// Close implements DockerAPI.
func (m *MockDockerAPI) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Verify MockDockerAPI implements DockerAPI.
var _ DockerAPI = (*MockDockerAPI)(nil)
