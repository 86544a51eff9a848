// Package cli holds the commands of the blogd daemon.
package cli

import "github.com/spf13/cobra"

// NewRootCommand assembles blogd.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "blogd",
		Short:   "Blog admin daemon",
		Long:    `blogd serves the blog admin API and manages its database schema.`,
		Version: version,
	}

	root.AddCommand(NewServeCommand())
	root.AddCommand(NewMigrateCommand())
	root.AddCommand(NewConfigCommand())

	return root
}
