package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ogero/stremio-tmdb/internal"
	"github.com/ogero/stremio-tmdb/internal/cache"
	"github.com/ogero/stremio-tmdb/internal/common"
	"github.com/ogero/stremio-tmdb/internal/manifest"
	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var configFlag string
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the manifest of a user config",
		Long: "Build the manifest of a user config.\n\n" +
			"The config is read from a file, or from stdin when --config is \"-\", " +
			"either as plain JSON or as the encoded segment of a configured manifest URL.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ctx.apiKey == "" {
				return errors.New("missing TMDB API key, set --tmdb-api-key or TMDB_API_KEY")
			}
			if formatFlag != "json" && formatFlag != "table" {
				return fmt.Errorf("unsupported format %q, expected json or table", formatFlag)
			}

			raw, err := readConfig(cmd, configFlag)
			if err != nil {
				return err
			}
			cfg, err := manifest.ParseConfig(raw)
			if err != nil {
				return err
			}
			if err := common.ValidateConfig(cfg); err != nil {
				return err
			}

			c, err := cache.Open(ctx.cachePath, slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))
			if err != nil {
				return fmt.Errorf("failed to cache.Open: %w", err)
			}
			defer c.Close()

			translations, err := manifest.LoadTranslations()
			if err != nil {
				return fmt.Errorf("failed to manifest.LoadTranslations: %w", err)
			}

			providers := internal.NewCachedProviders(ctx.newTMDB(ctx.apiKey, ctx.accessToken), c)
			builder := manifest.NewBuilder(providers, providers, manifest.DefaultTaxonomy(), translations, manifest.DefaultInfo())

			m, report, err := builder.Build(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to manifest.Builder.Build: %w", err)
			}

			if formatFlag == "json" {
				return writeJSON(cmd, m)
			}
			return writeBuildTables(cmd, m, report)
		},
	}

	cmd.Flags().StringVarP(&configFlag, "config", "c", "-", "User config file, \"-\" reads stdin")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or table")

	return cmd
}

func readConfig(cmd *cobra.Command, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func writeBuildTables(cmd *cobra.Command, m *stremio.Manifest, report *manifest.BuildReport) error {
	out := cmd.OutOrStdout()

	language := report.Language
	if report.LanguageFallback {
		language += " (filters ordered by " + manifest.DefaultLanguage + ")"
	}
	fmt.Fprintf(out, "%s %s\n", m.Name, m.Version)
	fmt.Fprintf(out, "Language: %s\n", language)
	fmt.Fprintf(out, "ID prefixes: %s\n\n", strings.Join(m.IDPrefixes, ", "))

	rows := lo.Map(m.Catalogs, func(c stremio.CatalogItem, _ int) []string {
		return []string{
			c.ID,
			c.Type,
			c.Name,
			strings.Join(c.ExtraSupported, ", "),
			strings.Join(c.ExtraRequired, ", "),
			strconv.Itoa(countOptions(c)),
		}
	})
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Type", "Name", "Extra", "Required", "Options"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))

	if len(report.Skipped) == 0 {
		return nil
	}

	skipped := lo.Map(report.Skipped, func(s manifest.SkippedCatalog, _ int) []string {
		return []string{s.ID, string(s.Reason)}
	})
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Skipped", "Reason"}, skipped, nil))

	return nil
}

func countOptions(c stremio.CatalogItem) int {
	return lo.SumBy(c.Extra, func(e stremio.CatalogExtra) int { return len(e.Options) })
}
