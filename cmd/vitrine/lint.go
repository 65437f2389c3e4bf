package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"vitrine/internal/ingest"
)

func newLintCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [catalog.json]",
		Short: "Check a catalog file against the product schema",
		Long:  "Lint reports every schema problem in a catalog. Without an argument it checks the configured catalog source.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			src := cfg.Catalog.Source
			if len(args) == 1 {
				src = args[0]
			}
			if src == "" {
				return fmt.Errorf("nothing to lint: no catalog source configured")
			}

			data, err := ingest.Fetch(cmd.Context(), nil, src)
			if err != nil {
				return err
			}
			issues, err := ingest.Lint(data)
			if err != nil {
				return err
			}
			for _, is := range issues {
				fmt.Fprintln(cmd.OutOrStdout(), is.String())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%s: %d schema issues", src, len(issues))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", src)
			return nil
		},
	}
}
