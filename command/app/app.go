package app

import (
	"context"
	"fmt"
	"log/slog"

	cfgloader "osa-stats/connectors/config"
	"osa-stats/connectors/dhis2"
	"osa-stats/connectors/upload"
	"osa-stats/domain/config"
	"osa-stats/domain/report"
)

// App bundles the configured pipeline and uploader shared by the subcommands.
type App struct {
	Config   *config.Config
	Report   *report.Service
	Uploader *upload.Client
}

// Load reads CONFIG_PATH and wires the DHIS2 source, transformer and uploader.
func Load(ctx context.Context) (*App, error) {
	cfg, err := cfgloader.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return New(ctx, cfg)
}

// New wires an App from an already loaded configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.ValidateUpstream(); err != nil {
		slog.Error("config.validation.error", "error", err)
		return nil, err
	}
	tr, err := cfg.Transformer()
	if err != nil {
		return nil, err
	}
	src := dhis2.NewFromConfig(ctx, cfg.DHIS2)
	return &App{
		Config:   cfg,
		Report:   report.NewService(src, tr, cfg.DHIS2.OrgUnitLevel, cfg.DHIS2.FacilityResource),
		Uploader: upload.NewFromConfig(ctx, cfg.Upload),
	}, nil
}
