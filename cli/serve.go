package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/blog/api"
	"github.com/kutbudev/blog/internal/admin"
	"github.com/kutbudev/blog/pkg/config"
	"github.com/kutbudev/blog/pkg/repository"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the command running the admin API.
func NewServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API",
		Long: `Connect to the database, migrate the schema and serve the admin API.

Examples:
  blogd serve
  blogd serve --port 9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			db, err := repository.NewDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			site, err := admin.NewDefaultSite()
			if err != nil {
				return err
			}

			gin.SetMode(cfg.Server.Mode)
			srv := &http.Server{
				Addr:    cfg.Server.Addr(),
				Handler: api.NewRouter(db, site),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listenAndServe(ctx, srv)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides server.port)")

	return cmd
}

// listenAndServe runs srv until ctx ends, then shuts it down gracefully.
func listenAndServe(ctx context.Context, srv *http.Server) error {
	serveErr := make(chan error, 1)
	log.Printf("admin API listening on %s", srv.Addr)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("admin API stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
