// Package preflight provides pre-flight validation for the binaries the
// generated compose file is run with.
package preflight

import (
	"os/exec"
)

// BinaryCheck represents a required binary and its purpose.
type BinaryCheck struct {
	Name        string
	Required    bool   // false = warning only
	InstallHint string // e.g., "brew install dapr/tap/dapr-cli" or "https://..."
}

// requiredBinaries defines binaries that must be present to validate or start
// a generated compose file.
var requiredBinaries = []BinaryCheck{
	{
		Name:        "docker",
		Required:    true,
		InstallHint: "Install Docker: https://docs.docker.com/get-docker/",
	},
}

// optionalBinaries defines binaries that help when working with the converted
// stack but are not needed to run it.
var optionalBinaries = []BinaryCheck{
	{
		Name:        "pulumi",
		Required:    false,
		InstallHint: "Install Pulumi: https://www.pulumi.com/docs/install/",
	},
	{
		Name:        "dapr",
		Required:    false,
		InstallHint: "Install the Dapr CLI: https://docs.dapr.io/getting-started/install-dapr-cli/",
	},
}

// Report splits the configured binaries by availability, in configuration
// order with required binaries first.
type Report struct {
	Found           []BinaryCheck
	MissingRequired []BinaryCheck
	MissingOptional []BinaryCheck
}

// OK reports whether every required binary was found.
func (r Report) OK() bool {
	return len(r.MissingRequired) == 0
}

// Check looks up every configured binary with available.
// Pass IsBinaryAvailable to search PATH.
func Check(available func(name string) bool) Report {
	var report Report
	for _, bin := range append(append([]BinaryCheck{}, requiredBinaries...), optionalBinaries...) {
		switch {
		case available(bin.Name):
			report.Found = append(report.Found, bin)
		case bin.Required:
			report.MissingRequired = append(report.MissingRequired, bin)
		default:
			report.MissingOptional = append(report.MissingOptional, bin)
		}
	}
	return report
}

// IsBinaryAvailable checks if a specific binary is available in PATH.
func IsBinaryAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// ComposePluginAvailable reports whether the docker compose v2 plugin
// answers. It returns false when docker itself is missing.
func ComposePluginAvailable() bool {
	if !IsBinaryAvailable("docker") {
		return false
	}
	return exec.Command("docker", "compose", "version").Run() == nil
}
