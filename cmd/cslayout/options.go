package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cslayout/internal/config"
	"cslayout/internal/driver"
)

const cacheApp = "cslayout"

// loadConfig reads --config or discovers the file from the first path.
func loadConfig(cmd *cobra.Command, paths []string) (*config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if explicit != "" {
		return config.Load(explicit)
	}
	start := "."
	if len(paths) > 0 {
		start = paths[0]
	}
	return config.Discover(start)
}

// driverOptions collects the persistent flags shared by check and fix.
func driverOptions(cmd *cobra.Command, paths []string) (driver.Options, error) {
	flags := cmd.Root().PersistentFlags()
	cfg, err := loadConfig(cmd, paths)
	if err != nil {
		return driver.Options{}, err
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return driver.Options{}, err
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return driver.Options{}, err
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return driver.Options{}, err
	}
	clearCache, err := flags.GetBool("clear-cache")
	if err != nil {
		return driver.Options{}, err
	}

	opts := driver.Options{
		Config:         cfg,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
		Timings:        timings,
	}
	if noCache && !clearCache {
		return opts, nil
	}
	cache, err := driver.OpenCache(cacheApp)
	if err != nil {
		// без кэша тоже можно работать
		fmt.Fprintf(cmd.ErrOrStderr(), "cslayout: cache disabled: %v\n", err)
		return opts, nil
	}
	if clearCache {
		if err := cache.DropAll(); err != nil {
			return driver.Options{}, fmt.Errorf("clear cache: %w", err)
		}
	}
	if !noCache {
		opts.Cache = cache
	}
	return opts, nil
}
