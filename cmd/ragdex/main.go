// Command ragdex is a local document search and question answering tool.
package main

import (
	"os"

	"github.com/ragdex-labs/ragdex-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
