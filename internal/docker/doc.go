// Package docker provides the Docker operations around a generated compose
// file.
//
// The Client type checks daemon connectivity and whether the images a compose
// file references are already pulled. The ComposeClient type shells out to
// docker compose to validate, start, and stop the generated stack.
//
// # Interface Abstraction
//
// The DockerAPI interface abstracts the Docker SDK, enabling mock injection
// for testing. Use NewClientWithAPI for test scenarios.
//
// # Example
//
//	client, err := docker.NewClient()
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	missing, err := client.MissingImages(ctx, file.Images())
//	for _, ref := range missing {
//	    fmt.Printf("not pulled: %s\n", ref)
//	}
package docker
