package main

import (
	"log"
	"os"

	"github.com/kutbudev/blog/internal/cli/commands"
	"github.com/urfave/cli/v2"
)

// Version will be set during build with ldflags
var Version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "blog",
		Usage:   "Browse and manage the blog database",
		Version: Version,
		Commands: []*cli.Command{
			commands.NewPostCommand(),
			commands.NewTagCommand(),
			commands.NewCommentCommand(),
			commands.NewUserCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
