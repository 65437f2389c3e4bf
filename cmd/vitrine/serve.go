package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"vitrine/internal/serve"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr    string
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog with live filtering and reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("addr") {
				cfg.Serve.Addr = addr
			}
			if noWatch {
				cfg.Serve.Watch = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := serve.New(cfg, serve.Options{Logger: log})
			if err != nil {
				return fmt.Errorf("serve init: %w", err)
			}
			defer s.Close()

			return s.ListenAndServe(ctx, cfg.Serve.Addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Disable file watching and live reload")
	return cmd
}
