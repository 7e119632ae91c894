package main

import (
	"os"

	"github.com/ogero/stremio-tmdb/pkg/tmdb"
	"github.com/spf13/cobra"
)

type commandContext struct {
	apiKey      string
	accessToken string
	cachePath   string

	newTMDB func(apiKey, accessToken string) tmdb.TMDB
}

func newCommandContext() *commandContext {
	return &commandContext{newTMDB: tmdb.NewTMDB}
}

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "manifestctl",
		Short:         "Build TMDB addon manifests from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.apiKey, "tmdb-api-key", os.Getenv("TMDB_API_KEY"), "TMDB v3 API key")
	rootCmd.PersistentFlags().StringVar(&ctx.accessToken, "tmdb-access-token", os.Getenv("TMDB_ACCESS_TOKEN"), "TMDB v4 read access token")
	rootCmd.PersistentFlags().StringVar(&ctx.cachePath, "cache", "", "Provider responses cache directory, in memory when empty")

	rootCmd.AddCommand(newBuildCommand(ctx))

	return rootCmd
}
