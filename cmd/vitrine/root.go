package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vitrine/internal/domain/config"
	"vitrine/internal/logging"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "vitrine",
		Short:         "Product catalog site generator",
		Long:          "Vitrine turns a JSON product catalog into a searchable, paginated listing site with SEO metadata.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "site.yaml", "Path to the site config")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")

	cmd.AddCommand(
		newBuildCmd(opts),
		newServeCmd(opts),
		newSitemapCmd(opts),
		newLintCmd(opts),
	)
	return cmd
}

// load reads the config and builds the logger. A missing site.yaml is fine unless --config
// was given explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	var (
		cfg config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath, os.Getenv)
	} else {
		cfg, err = config.LoadOrDefault(o.configPath, os.Getenv)
	}
	if err != nil {
		return cfg, nil, fmt.Errorf("config %s: %w", o.configPath, err)
	}

	log, err := logging.New(o.verbose)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}
