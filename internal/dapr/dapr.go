// Package dapr builds the compose entries that give a service a Dapr
// sidecar: the sidecar itself and the shared placement service.
package dapr

import (
	"fmt"
	"strconv"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
)

// Default topology values.
const (
	DefaultSidecarImage   = "daprio/daprd:edge"
	DefaultPlacementImage = "daprio/dapr"
	DefaultPlacementName  = "placement"
	DefaultPlacementPort  = 50006
	DefaultNetwork        = "dapr-network"
	DefaultSidecarSuffix  = "_dapr"
)

// Settings describes the local Dapr topology.
type Settings struct {
	SidecarImage   string `yaml:"sidecarImage,omitempty"`
	PlacementImage string `yaml:"placementImage,omitempty"`
	PlacementName  string `yaml:"placementName,omitempty"`
	PlacementPort  int    `yaml:"placementPort,omitempty"`
	Network        string `yaml:"network,omitempty"`
	SidecarSuffix  string `yaml:"sidecarSuffix,omitempty"`
}

// DefaultSettings returns the standard self-hosted topology.
func DefaultSettings() Settings {
	return Settings{
		SidecarImage:   DefaultSidecarImage,
		PlacementImage: DefaultPlacementImage,
		PlacementName:  DefaultPlacementName,
		PlacementPort:  DefaultPlacementPort,
		Network:        DefaultNetwork,
		SidecarSuffix:  DefaultSidecarSuffix,
	}
}

// WithDefaults fills every unset field from DefaultSettings.
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.SidecarImage == "" {
		s.SidecarImage = d.SidecarImage
	}
	if s.PlacementImage == "" {
		s.PlacementImage = d.PlacementImage
	}
	if s.PlacementName == "" {
		s.PlacementName = d.PlacementName
	}
	if s.PlacementPort == 0 {
		s.PlacementPort = d.PlacementPort
	}
	if s.Network == "" {
		s.Network = d.Network
	}
	if s.SidecarSuffix == "" {
		s.SidecarSuffix = d.SidecarSuffix
	}
	return s
}

// Validate rejects settings that cannot produce a working topology.
func (s Settings) Validate() error {
	if s.PlacementPort < 1 || s.PlacementPort > 65535 {
		return fmt.Errorf("dapr placement port %d out of range", s.PlacementPort)
	}
	return nil
}

// PlacementAddress is the host:port sidecars use to reach placement.
func (s Settings) PlacementAddress() string {
	return fmt.Sprintf("%s:%d", s.PlacementName, s.PlacementPort)
}

// SidecarName returns the sidecar entry name for a service.
func (s Settings) SidecarName(service string) string {
	return service + s.SidecarSuffix
}

// Attach joins a primary entry to the placement network.
func (s Settings) Attach(primary compose.ServiceEntry) compose.ServiceEntry {
	primary.DependsOn = []string{s.PlacementName}
	primary.Networks = []string{s.Network}
	return primary
}

// Sidecar returns the daprd entry for service. It shares the service's
// network namespace so the app is reachable on localhost. appPort 0 omits
// the -app-port flag.
func (s Settings) Sidecar(service string, appPort int) compose.ServiceEntry {
	command := []string{"./daprd", "-app-id", service}
	if appPort > 0 {
		command = append(command, "-app-port", strconv.Itoa(appPort))
	}
	command = append(command, "-placement-host-address", s.PlacementAddress())

	return compose.ServiceEntry{
		Name:        s.SidecarName(service),
		Image:       s.SidecarImage,
		DependsOn:   []string{service},
		NetworkMode: compose.ShareNamespaceOf(service),
		Command:     command,
	}
}

// Placement returns the shared placement service entry.
func (s Settings) Placement() compose.ServiceEntry {
	port := strconv.Itoa(s.PlacementPort)
	return compose.ServiceEntry{
		Name:     s.PlacementName,
		Image:    s.PlacementImage,
		Ports:    []string{port + ":" + port},
		Networks: []string{s.Network},
		Command:  []string{"./placement", "-port", port},
	}
}
