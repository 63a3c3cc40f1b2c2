package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esquery"
	"github.com/kailas-cloud/esquery/internal/config"
	logpkg "github.com/kailas-cloud/esquery/internal/logger"
	filteruc "github.com/kailas-cloud/esquery/internal/usecase/filter"
	"github.com/kailas-cloud/esquery/internal/version"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "esquery-cli",
		Short:         "Compose Elasticsearch bool queries",
		Version:       fmt.Sprintf("%s (%s, %s)", version.Version, version.Commit, version.Date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config with search defaults and filters")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	cmd.AddCommand(newComposeCmd(opts), newFiltersCmd(opts))
	return cmd
}

// setup loads the optional config and bootstraps a registry from its filters.
func (o *rootOptions) setup(ctx context.Context) (context.Context, config.Config, *esquery.Registry, error) {
	log, err := logpkg.NewCLILogger(o.verbose)
	if err != nil {
		return ctx, config.Config{}, nil, err
	}
	ctx = logpkg.ContextWithLogger(ctx, log)

	var cfg config.Config
	if o.configPath != "" {
		cfg, err = config.LoadSearchFile(o.configPath)
		if err != nil {
			return ctx, cfg, nil, err
		}
		log.Debug("config loaded", zap.String("path", o.configPath), zap.Int("filters", len(cfg.Filters)))
	} else {
		cfg.ApplyDefaults()
	}

	registry := esquery.NewRegistry()
	if _, err := filteruc.New(registry, nil).Bootstrap(ctx, cfg.Filters, false); err != nil {
		return ctx, cfg, nil, err
	}
	return ctx, cfg, registry, nil
}

func writeJSON(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
