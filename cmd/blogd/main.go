package main

import (
	"os"

	"github.com/kutbudev/blog/cli"
)

// Version will be set during build with ldflags
var Version = "0.1.0"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
