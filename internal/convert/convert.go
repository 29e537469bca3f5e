// Package convert turns a Pulumi program declaring Azure Container Apps into
// a docker-compose document.
//
// The pipeline runs in four steps:
//
//   - Parse the program with the driver for its Syntax
//   - Extract container-app workloads (package pulumi)
//   - Rewrite each workload into compose entries, adding a Dapr sidecar
//     when the resource declares dapr configuration
//   - Aggregate the entries with the placement service and render YAML
//
// # Example
//
//	result, err := convert.Convert(raw, convert.SyntaxYAML, convert.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.Output)
package convert

import (
	"fmt"

	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/dapr"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
)

// Options configures a conversion.
type Options struct {
	// Mode controls handling of malformed container-app resources.
	Mode pulumi.Mode

	// Dapr describes the sidecar and placement topology.
	Dapr dapr.Settings
}

// DefaultOptions returns fail-fast extraction with the default topology.
func DefaultOptions() Options {
	return Options{
		Mode: pulumi.ModeFailFast,
		Dapr: dapr.DefaultSettings(),
	}
}

// Result holds a finished conversion.
type Result struct {
	File    *compose.File
	Output  []byte
	Skipped []pulumi.SkippedResource
}

// Convert runs the full pipeline over raw program text.
func Convert(raw []byte, syntax Syntax, opts Options) (*Result, error) {
	opts.Dapr = opts.Dapr.WithDefaults()
	if err := opts.Dapr.Validate(); err != nil {
		return nil, err
	}

	parsed, err := syntax.Parse(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s program: %w", syntax, err)
	}

	file, err := Aggregate(parsed.Entries, opts.Dapr)
	if err != nil {
		return nil, err
	}

	output, err := syntax.Render(file)
	if err != nil {
		return nil, fmt.Errorf("render compose file: %w", err)
	}

	return &Result{
		File:    file,
		Output:  output,
		Skipped: parsed.Skipped,
	}, nil
}
