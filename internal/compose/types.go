// Package compose models the docker-compose document produced by a conversion.
package compose

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the compose schema version written to every output document.
const Version = "3.9"

// namespacePrefix is the network_mode prefix for sharing another service's
// network namespace.
const namespacePrefix = "service:"

// ServiceEntry is one service in the output document.
type ServiceEntry struct {
	// Name is the key in the services map. It is not written inside the entry.
	Name string `yaml:"-"`

	// Image is always written, even when empty.
	Image string `yaml:"image"`

	Command     []string      `yaml:"command,omitempty"`
	DependsOn   []string      `yaml:"depends_on,omitempty"`
	Environment []string      `yaml:"environment,omitempty"`
	NetworkMode *NamespaceRef `yaml:"network_mode,omitempty"`
	Networks    []string      `yaml:"networks,omitempty"`
	Ports       []string      `yaml:"ports,omitempty"`
}

// NamespaceRef points at the service whose network namespace an entry shares.
// It renders as "service:<name>".
type NamespaceRef struct {
	Service string
}

// ShareNamespaceOf returns a reference to the named service's namespace.
func ShareNamespaceOf(service string) *NamespaceRef {
	return &NamespaceRef{Service: service}
}

// String returns the compose network_mode value.
func (r NamespaceRef) String() string {
	return namespacePrefix + r.Service
}

// MarshalYAML implements yaml.Marshaler.
func (r NamespaceRef) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *NamespaceRef) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	name, ok := strings.CutPrefix(s, namespacePrefix)
	if !ok || name == "" {
		return fmt.Errorf("unsupported network_mode %q (want %s<name>)", s, namespacePrefix)
	}

	r.Service = name
	return nil
}

// Network is a top-level network declaration.
type Network struct {
	Driver string `yaml:"driver,omitempty"`
}

// File is the output compose document.
type File struct {
	Version  string                  `yaml:"version"`
	Services map[string]ServiceEntry `yaml:"services"`
	Networks map[string]Network      `yaml:"networks,omitempty"`
}

// NewFile creates an empty document with the current schema version.
func NewFile() *File {
	return &File{
		Version:  Version,
		Services: make(map[string]ServiceEntry),
	}
}
