package convert

import (
	"github.com/pulumi-compose/pulumi-compose/internal/compose"
	"github.com/pulumi-compose/pulumi-compose/internal/dapr"
	"github.com/pulumi-compose/pulumi-compose/internal/pulumi"
)

// Rewrite maps one workload to its compose entries. A workload without a
// mesh yields a single entry; a meshed workload yields the primary entry
// followed by its sidecar.
//
// The primary entry carries the container's env as environment, so a
// workload without mesh reduces to {image} only when its container has no
// env.
func Rewrite(w pulumi.Workload, settings dapr.Settings) []compose.ServiceEntry {
	primary := compose.ServiceEntry{
		Name:        w.Container.Name,
		Image:       w.Container.Image,
		Environment: environment(w.Container.Env),
	}

	if !w.Meshed() {
		return []compose.ServiceEntry{primary}
	}

	return []compose.ServiceEntry{
		settings.Attach(primary),
		settings.Sidecar(primary.Name, w.AppPort()),
	}
}

// RewriteAll flattens Rewrite over workloads, keeping their order.
func RewriteAll(workloads []pulumi.Workload, settings dapr.Settings) []compose.ServiceEntry {
	var entries []compose.ServiceEntry
	for _, w := range workloads {
		entries = append(entries, Rewrite(w, settings)...)
	}
	return entries
}

// environment renders env vars as KEY=value. Secret-backed vars render as a
// bare KEY so compose takes the value from the host environment.
func environment(vars []pulumi.EnvVar) []string {
	var env []string
	for _, v := range vars {
		if v.Name == "" {
			continue
		}
		if v.SecretRef != "" {
			env = append(env, v.Name)
			continue
		}
		env = append(env, v.Name+"="+v.Value)
	}
	return env
}
