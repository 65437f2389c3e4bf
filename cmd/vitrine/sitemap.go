package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vitrine/internal/ingest"
	"vitrine/internal/render"
	"vitrine/internal/seo"
)

func newSitemapCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sitemap",
		Short: "Write sitemap.xml for the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cat, err := ingest.Load(cmd.Context(), ingest.Options{
				Source:      cfg.Catalog.Source,
				ProductsDir: cfg.Catalog.ProductsDir,
				Timeout:     cfg.Catalog.FetchTimeout,
				Currency:    cfg.Site.Currency,
				Logger:      log,
			})
			if err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}
			data, err := seo.Sitemap(render.SEOSite(cfg), cat.Products, cfg.Build.Now)
			if err != nil {
				return fmt.Errorf("sitemap: %w", err)
			}

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("failed to write sitemap: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}
