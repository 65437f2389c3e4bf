package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vitrine/internal/build"
)

func newBuildCmd(root *rootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the static site into the public directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			b := &build.Builder{Cfg: cfg, Logger: log, Force: force}
			res, err := b.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}
			if res.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "up to date")
				return nil
			}
			log.Debug("build result", zap.String("fingerprint", res.Fingerprint))
			fmt.Fprintf(cmd.OutOrStdout(), "built %d pages for %d products (%d warnings) into %s\n",
				res.Pages, res.Products, len(res.Warnings), cfg.Build.PublicDir)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Rebuild even when nothing changed")
	return cmd
}
