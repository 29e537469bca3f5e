package convert

import (
	"fmt"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/dapr"
)

// Aggregate builds the output document from rewritten entries. Entries are
// added in order, so a later entry replaces an earlier one with the same
// name. The placement service is always added last.
func Aggregate(entries []compose.ServiceEntry, settings dapr.Settings) (*compose.File, error) {
	file := compose.NewFile()

	for _, entry := range entries {
		file.Add(entry)
	}
	file.Add(settings.Placement())
	file.DeclareNetworks()

	if err := file.Validate(); err != nil {
		return nil, fmt.Errorf("aggregate services: %w", err)
	}

	return file, nil
}
