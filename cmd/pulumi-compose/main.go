// Command pulumi-compose converts Pulumi container-app programs into
// docker-compose files.
package main

import "github.com/pulumi-compose/pulumi-compose/internal/cmd"

func main() {
	cmd.Execute()
}
