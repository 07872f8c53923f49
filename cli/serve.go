package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"webpbatch/api"
	"webpbatch/batch"
	"webpbatch/codec"
	"webpbatch/config"
	"webpbatch/run"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API for submitting and tracking batch runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			conv, err := codec.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize codec: %w", err)
			}

			gate := codec.ResourceGate{
				MinIdleCPU:  cfg.ThrottleCPU,
				MinFreeMem:  cfg.ThrottleFreeMem,
				MinFreeDisk: cfg.ThrottleFreeDisk,
			}
			manager, err := run.NewManager(cfg, batch.NewRunner(conv), gate)
			if err != nil {
				return fmt.Errorf("failed to initialize run manager: %w", err)
			}

			router := api.SetupRouter(manager, cfg)
			srv := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: router,
			}

			// Create a context that can be canceled
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			manager.Start(ctx)

			go func() {
				log.Printf("Server starting on port %s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("listen: %s\n", err)
				}
			}()

			// Wait for interrupt signal for graceful shutdown
			<-ctx.Done()

			// Restore default behavior on the interrupt signal and notify user of shutdown.
			stop()
			log.Println("Shutting down gracefully, press Ctrl+C again to force")

			// The context is used to inform the server it has 5 seconds to finish
			// the requests it is currently handling
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			log.Println("Server exiting")
			return nil
		},
	}
}
