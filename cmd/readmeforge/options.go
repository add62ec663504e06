package main

import (
	"fmt"

	readmeforge "github.com/Neil2813/Crimson-Scriveners-Readme-Forger"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/config"
)

// converterOptions translates a validated config into Converter options.
func converterOptions(cfg *config.Config, env *Environment) ([]readmeforge.Option, error) {
	if cfg.Document.Palette != "" && !readmeforge.IsValidPalette(cfg.Document.Palette) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPalette, cfg.Document.Palette)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine, err := readmeforge.ParsePDFEngine(cfg.PDF.Engine)
	if err != nil {
		return nil, err
	}

	opts := []readmeforge.Option{
		readmeforge.WithPalette(readmeforge.NormalizePalette(cfg.Document.Palette)),
		readmeforge.WithDateFormat(cfg.Document.DateFormat),
		readmeforge.WithHighlighting(cfg.Document.Highlight),
		readmeforge.WithStyle(cfg.Assets.Style),
		readmeforge.WithPDFEngine(engine),
		readmeforge.WithTimeout(cfg.PDFTimeout()),
		readmeforge.WithNow(env.Now),
		readmeforge.WithLogger(env.Logger),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, readmeforge.WithAssetPath(cfg.Assets.BasePath))
	}
	return opts, nil
}

// cloneConfig copies cfg so command flags never leak into the shared value.
func cloneConfig(cfg *config.Config) *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	c := *cfg
	c.Server.AllowedOrigins = append([]string(nil), cfg.Server.AllowedOrigins...)
	return &c
}
