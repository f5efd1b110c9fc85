package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/satchel/internal/server"
)

// newServeCmd creates the "serve" command: attach the store and run
// the HTTP adapter until interrupted.
func newServeCmd() *cobra.Command {
	var addr string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the knowledge store over HTTP",
		Long: `Serve starts the HTTP API. Every endpoint returns a uniform
success/failure envelope whose data is a canonical shape.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer logger.Sync()

			v, err := loadConfig(resolveConfigDir())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr == "" {
				addr = v.GetString(cfgKeyAddr)
			}

			store, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if seed {
				if err := store.Seed(); err != nil {
					return fmt.Errorf("seed store: %w", err)
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Store:  store,
				Addr:   addr,
				Logger: logger,
			})
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")
	cmd.Flags().BoolVar(&seed, "seed", false, "load the demo dataset before serving")
	return cmd
}
