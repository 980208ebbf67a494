package main

import (
	"fmt"
	"text/template"

	"github.com/at-ishikawa/l10nkit/internal/assets"
	"github.com/at-ishikawa/l10nkit/internal/config"
	"github.com/at-ishikawa/l10nkit/internal/sourcefile"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func sourceDirectory(cfg *config.Config, kind sourcefile.Kind) string {
	if kind == sourcefile.KindPages {
		return cfg.Paths.PagesDirectory
	}
	return cfg.Paths.ComponentsDirectory
}

func effectTemplate(cfg *config.Config) (*template.Template, error) {
	tmpl, err := assets.ParseEffectTemplate(cfg.Paths.EffectTemplate)
	if err != nil {
		return nil, fmt.Errorf("assets.ParseEffectTemplate(%s) > %w", cfg.Paths.EffectTemplate, err)
	}
	return tmpl, nil
}
