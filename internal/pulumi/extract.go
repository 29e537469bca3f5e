package pulumi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extract walks a parsed program and returns its container-app workloads.
//
// Resources are visited in document order. Resources of other types, or
// without a type, are ignored. A program without a resources mapping is
// always an error; a malformed container-app resource is an error in
// ModeFailFast and is recorded in Extraction.Skipped in ModeSkip.
func Extract(doc *yaml.Node, mode Mode) (*Extraction, error) {
	root := resolve(doc)
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			root = nil
		} else {
			root = resolve(root.Content[0])
		}
	}

	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &StructuralError{Path: "resources", Reason: "document is not a mapping"}
	}

	resources, ok := lookup(root, "resources")
	if !ok {
		return nil, &StructuralError{Path: "resources", Reason: "missing"}
	}
	if resources.Kind != yaml.MappingNode {
		return nil, &StructuralError{Path: "resources", Reason: "not a mapping"}
	}

	result := &Extraction{}
	for i := 0; i+1 < len(resources.Content); i += 2 {
		id := resources.Content[i].Value
		resource := resolve(resources.Content[i+1])

		if !isContainerApp(resource) {
			continue
		}

		workloads, err := extractResource(id, resource)
		if err != nil {
			var serr *StructuralError
			if mode == ModeSkip && errors.As(err, &serr) {
				result.Skipped = append(result.Skipped, SkippedResource{
					ResourceID: id,
					Reason:     serr.Path + ": " + serr.Reason,
				})
				continue
			}
			return nil, err
		}

		result.Workloads = append(result.Workloads, workloads...)
	}

	return result, nil
}

func isContainerApp(resource *yaml.Node) bool {
	if resource == nil || resource.Kind != yaml.MappingNode {
		return false
	}
	typ, ok := lookup(resource, "type")
	return ok && typ.Kind == yaml.ScalarNode && typ.Value == ContainerAppType
}

func extractResource(id string, resource *yaml.Node) ([]Workload, error) {
	props, err := requireMapping(id, resource, "properties", "properties")
	if err != nil {
		return nil, err
	}
	template, err := requireMapping(id, props, "template", "properties.template")
	if err != nil {
		return nil, err
	}

	containers, ok := lookup(template, "containers")
	if !ok {
		return nil, &StructuralError{ResourceID: id, Path: "properties.template.containers", Reason: "missing"}
	}
	if containers.Kind != yaml.SequenceNode {
		return nil, &StructuralError{ResourceID: id, Path: "properties.template.containers", Reason: "not a sequence"}
	}

	mesh, targetPort := readConfiguration(props)

	workloads := make([]Workload, 0, len(containers.Content))
	for i, item := range containers.Content {
		path := fmt.Sprintf("properties.template.containers[%d]", i)

		container, err := readContainer(id, path, resolve(item))
		if err != nil {
			return nil, err
		}

		workloads = append(workloads, Workload{
			ResourceID: id,
			Container:  container,
			Mesh:       mesh,
			TargetPort: targetPort,
		})
	}

	return workloads, nil
}

// readConfiguration returns the dapr marker and ingress target port. Both are
// optional, and malformed values are treated as absent.
func readConfiguration(props *yaml.Node) (*Mesh, int) {
	config, ok := lookup(props, "configuration")
	if !ok || config.Kind != yaml.MappingNode {
		return nil, 0
	}

	var mesh *Mesh
	if dapr, ok := lookup(config, "dapr"); ok {
		mesh = &Mesh{}
		if dapr.Kind == yaml.MappingNode {
			mesh.AppPort = intField(dapr, "appPort")
		}
	}

	targetPort := 0
	if ingress, ok := lookup(config, "ingress"); ok && ingress.Kind == yaml.MappingNode {
		targetPort = intField(ingress, "targetPort")
	}

	return mesh, targetPort
}

func readContainer(id, path string, node *yaml.Node) (Container, error) {
	var c Container

	if node == nil || node.Kind != yaml.MappingNode {
		return c, &StructuralError{ResourceID: id, Path: path, Reason: "not a mapping"}
	}

	var err error
	if c.Name, err = stringField(id, path, node, "name"); err != nil {
		return c, err
	}
	if c.Image, err = stringField(id, path, node, "image"); err != nil {
		return c, err
	}

	if env, ok := lookup(node, "env"); ok && !isNull(env) {
		if err := env.Decode(&c.Env); err != nil {
			return c, &StructuralError{ResourceID: id, Path: path + ".env", Reason: err.Error()}
		}
	}

	return c, nil
}

// stringField returns a scalar field as a string. A missing or null field
// yields "".
func stringField(id, path string, node *yaml.Node, key string) (string, error) {
	value, ok := lookup(node, key)
	if !ok || isNull(value) {
		return "", nil
	}
	if value.Kind != yaml.ScalarNode {
		return "", &StructuralError{ResourceID: id, Path: path + "." + key, Reason: "not a scalar"}
	}
	return value.Value, nil
}

func intField(node *yaml.Node, key string) int {
	value, ok := lookup(node, key)
	if !ok || value.Kind != yaml.ScalarNode {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value.Value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func requireMapping(id string, parent *yaml.Node, key, path string) (*yaml.Node, error) {
	node, ok := lookup(parent, key)
	if !ok {
		return nil, &StructuralError{ResourceID: id, Path: path, Reason: "missing"}
	}
	if node.Kind != yaml.MappingNode {
		return nil, &StructuralError{ResourceID: id, Path: path, Reason: "not a mapping"}
	}
	return node, nil
}

// lookup returns the value for key in a mapping node, following aliases.
// Merge keys (<<: *base) are not expanded, so keys brought in by a merge
// are not found.
func lookup(mapping *yaml.Node, key string) (*yaml.Node, bool) {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return resolve(mapping.Content[i+1]), true
		}
	}
	return nil, false
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
