// hosttrust is the CLI for inspecting OpenSSH known_hosts trust databases.
package main

import (
	"os"

	"github.com/nmelo/hosttrust/cmd/hosttrust/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
