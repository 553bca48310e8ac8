package lasbackcli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zdevbro-cpu/las-backoffice/internal/config"
	"github.com/zdevbro-cpu/las-backoffice/internal/webapp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the back office web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := webapp.Run(ctx, config.Load())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
