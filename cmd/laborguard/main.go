// Command laborguard is the admin CLI for the complaint service.
package main

import "github.com/laborguard/complaint-service/internal/interfaces/cli"

func main() {
	cli.Execute()
}
