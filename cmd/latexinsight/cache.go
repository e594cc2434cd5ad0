package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"latex-insight/internal/environment"
	"latex-insight/internal/types"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the environment stub cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := c.cfg.GetConfig().StubCacheDir
			if dir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no stub_cache_dir configured")
				return nil
			}
			cache, err := environment.OpenStubCache(dir)
			if err != nil {
				return types.NewAppError(types.ErrCache, "failed to open stub cache", err)
			}
			if err := cache.DropAll(); err != nil {
				return types.NewAppError(types.ErrCache, "failed to clear stub cache", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", dir)
			return nil
		},
	})
	return cmd
}
