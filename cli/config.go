package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/kutbudev/blog/pkg/config"
	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long:  `Show the configuration resolved from config.yaml, .env and BLOG_* environment variables.`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	return cmd
}

func printConfig(w io.Writer, cfg *config.Config) {
	db := cfg.Database
	fmt.Fprintln(w, "database:")
	fmt.Fprintf(w, "  driver:   %s\n", db.Driver)
	if db.Driver == config.DriverSQLite {
		fmt.Fprintf(w, "  path:     %s\n", db.Path)
	} else {
		fmt.Fprintf(w, "  host:     %s\n", db.Host)
		fmt.Fprintf(w, "  port:     %d\n", db.Port)
		fmt.Fprintf(w, "  user:     %s\n", db.User)
		fmt.Fprintf(w, "  password: %s\n", mask(db.Password))
		fmt.Fprintf(w, "  name:     %s\n", db.Name)
		fmt.Fprintf(w, "  ssl_mode: %s\n", db.SSLMode)
	}
	fmt.Fprintf(w, "  debug:    %t\n", db.Debug)
	fmt.Fprintln(w, "server:")
	fmt.Fprintf(w, "  addr:     %s\n", cfg.Server.Addr())
	fmt.Fprintf(w, "  mode:     %s\n", cfg.Server.Mode)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}
