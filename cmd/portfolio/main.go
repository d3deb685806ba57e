// Command portfolio bundles the maintenance scripts for the site: the EXIF
// metadata backfill and the bulk media upload.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "portfolio: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio site maintenance CLI",
		Long: `Maintenance tooling for the portfolio backend: bulk-upload image originals
into the media bucket and backfill EXIF metadata onto photo records.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newEnrichCmd(),
		newUploadCmd(),
	)
	return cmd
}
