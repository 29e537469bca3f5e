package compose

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrDanglingReference indicates a service references a name that is not in
// the document.
var ErrDanglingReference = errors.New("dangling service reference")

// Add inserts an entry keyed by its name. An existing entry with the same
// name is replaced.
func (f *File) Add(entry ServiceEntry) {
	if f.Services == nil {
		f.Services = make(map[string]ServiceEntry)
	}
	f.Services[entry.Name] = entry
}

// Names returns the service names in sorted order.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Services))
	for name := range f.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DeclareNetworks adds a top-level declaration for every network a service
// joins. Existing declarations are kept.
func (f *File) DeclareNetworks() {
	for _, entry := range f.Services {
		for _, network := range entry.Networks {
			if f.Networks == nil {
				f.Networks = make(map[string]Network)
			}
			if _, ok := f.Networks[network]; !ok {
				f.Networks[network] = Network{}
			}
		}
	}
}

// Validate checks that every network_mode and depends_on reference resolves
// to a service in the document.
func (f *File) Validate() error {
	for _, name := range f.Names() {
		entry := f.Services[name]

		if entry.NetworkMode != nil {
			if len(entry.Networks) > 0 {
				return fmt.Errorf("service %s: network_mode and networks are mutually exclusive", name)
			}
			if _, ok := f.Services[entry.NetworkMode.Service]; !ok {
				return fmt.Errorf("%w: %s network_mode %s", ErrDanglingReference, name, entry.NetworkMode)
			}
		}

		for _, dep := range entry.DependsOn {
			if _, ok := f.Services[dep]; !ok {
				return fmt.Errorf("%w: %s depends_on %s", ErrDanglingReference, name, dep)
			}
		}
	}

	return nil
}

// Marshal renders the document as YAML.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("marshal compose file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal compose file: %w", err)
	}

	return buf.Bytes(), nil
}

// Unmarshal parses a compose document. Service names are copied into each
// entry.
func Unmarshal(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse compose file: %w", err)
	}

	for name, entry := range f.Services {
		entry.Name = name
		f.Services[name] = entry
	}

	return &f, nil
}

// Images returns the distinct non-empty images in the document, sorted.
func (f *File) Images() []string {
	seen := make(map[string]bool)
	var images []string
	for _, entry := range f.Services {
		if entry.Image == "" || seen[entry.Image] {
			continue
		}
		seen[entry.Image] = true
		images = append(images, entry.Image)
	}
	sort.Strings(images)
	return images
}
