package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"gosolc/internal/catalog"
	"gosolc/internal/config"
	"gosolc/internal/install"
	"gosolc/internal/logging"
	"gosolc/internal/solc"
)

// loadConfig loads and validates the tool configuration, honoring the
// --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mustLoadConfig loads the configuration or exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger creates a logger from the config and the global CLI flags.
func newLogger(cfg *config.Config) *logging.Logger {
	format, err := resolveLogFormat(cfg.Logging.Format)
	if err != nil {
		format = logging.HumanFormat
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logging.InfoLevel
	}
	if verboseFlag {
		level = logging.DebugLevel
	}

	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  level,
	})
}

// newInstaller builds the compiler install manager from the config.
func newInstaller(cfg *config.Config, logger *logging.Logger) (*install.Manager, error) {
	dir, err := cfg.InstallDir()
	if err != nil {
		return nil, fmt.Errorf("resolving install dir: %w", err)
	}
	return install.NewManager(dir, logger,
		install.WithURLTemplate(cfg.Compilers.DownloadURL),
		install.WithHTTPClient(&http.Client{Timeout: cfg.DownloadTimeout()})), nil
}

// mustNewInstaller builds the install manager or exits on error.
func mustNewInstaller(cfg *config.Config, logger *logging.Logger) *install.Manager {
	mgr, err := newInstaller(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return mgr
}

// newCatalogSource builds the release catalog source. The on-disk cache is
// best-effort: if the cache path cannot be determined the source simply
// fetches every time.
func newCatalogSource(cfg *config.Config, installed catalog.InstalledLister, logger *logging.Logger, forceRefresh bool) *catalog.Source {
	opts := []catalog.Option{catalog.WithURL(cfg.Catalog.ReleasesURL)}

	if cachePath, err := catalog.DefaultCachePath(); err == nil {
		opts = append(opts, catalog.WithCache(catalog.NewCache(cachePath, cfg.CacheTTL())))
	}
	if forceRefresh {
		opts = append(opts, catalog.WithForcedRefresh())
	}

	return catalog.NewSource(installed, logger, opts...)
}

// newInvoker builds the solc process invoker on top of the installer.
func newInvoker(cfg *config.Config, installer *install.Manager, logger *logging.Logger) *solc.Invoker {
	runner := solc.NewRealRunner(cfg.CompileTimeout())
	return solc.NewInvoker(installer, runner, logger)
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}
