package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/martomarzo/shutupandtakemythings/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	serve := newServeCmd(&cfg)
	root := &cobra.Command{
		Use:           "shutupandtakemythings",
		Short:         "Classifieds storefront for selling off your stuff",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}
	// The root command runs the server, so it accepts the same flags.
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newPasswdCmd(&cfg))
	return root
}
