// Package pulumi extracts Azure Container App workloads from a Pulumi YAML
// program.
package pulumi

// ContainerAppType is the resource type token this package extracts.
const ContainerAppType = "azure-native:app:ContainerApp"

// Mode selects how Extract treats a container-app resource that lacks
// required structure.
type Mode int

const (
	// ModeFailFast aborts extraction at the first malformed resource.
	ModeFailFast Mode = iota

	// ModeSkip records the malformed resource and continues.
	ModeSkip
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFailFast:
		return "fail"
	case ModeSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ParseMode parses the config spelling of a mode. Empty means ModeFailFast.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "fail", "fail-fast":
		return ModeFailFast, true
	case "skip":
		return ModeSkip, true
	default:
		return ModeFailFast, false
	}
}

// Container is one entry of a container app's template.containers list.
type Container struct {
	Name  string
	Image string
	Env   []EnvVar
}

// EnvVar is a container environment variable. SecretRef is set instead of
// Value when the value comes from an app secret.
type EnvVar struct {
	Name      string `yaml:"name"`
	Value     string `yaml:"value"`
	SecretRef string `yaml:"secretRef"`
}

// Mesh is the Dapr configuration of a container app. Its presence alone
// enables the sidecar.
type Mesh struct {
	// AppPort is dapr.appPort, or 0 when unset.
	AppPort int
}

// Workload pairs a container with the mesh settings of its resource.
type Workload struct {
	// ResourceID is the key of the resource under resources.
	ResourceID string

	Container Container

	// Mesh is nil when the resource has no dapr configuration.
	Mesh *Mesh

	// TargetPort is the resource's ingress target port, or 0 when unset.
	TargetPort int
}

// Meshed reports whether the workload runs with a Dapr sidecar.
func (w Workload) Meshed() bool {
	return w.Mesh != nil
}

// AppPort returns the port the sidecar should forward to: dapr.appPort,
// then the ingress target port. It returns 0 when neither is declared.
func (w Workload) AppPort() int {
	if w.Mesh != nil && w.Mesh.AppPort > 0 {
		return w.Mesh.AppPort
	}
	return w.TargetPort
}

// SkippedResource is a malformed resource dropped in ModeSkip.
type SkippedResource struct {
	ResourceID string
	Reason     string
}

// Extraction is the result of walking a program.
type Extraction struct {
	// Workloads in resource order, then container order.
	Workloads []Workload

	// Skipped is only populated in ModeSkip.
	Skipped []SkippedResource
}
