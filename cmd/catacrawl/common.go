package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"catacrawl/internal/config"
	"catacrawl/internal/log"
	"catacrawl/internal/render"
)

// addCrawlFlags registers the flags shared by the structure and crawl
// commands: where the catalog lives, how pages are rendered, and how
// traffic leaves the machine.
func addCrawlFlags(cmd *cobra.Command) {
	cmd.Flags().String("catalog", config.DefaultCatalogURL,
		"Catalog landing page URL")
	cmd.Flags().Bool("browser", false,
		"Render pages with a headless browser instead of plain HTTP")
	cmd.Flags().String("remote-browser", "",
		"WebSocket endpoint of a remote browser pool (implies --browser)")
	cmd.Flags().String("browser-token", "",
		"Authentication token for the remote browser pool")
	cmd.Flags().String("proxy", "",
		"Egress proxy URL for HTTP fetches and downloads")
	cmd.Flags().String("proxy-user", "", "Egress proxy username")
	cmd.Flags().String("proxy-pass", "", "Egress proxy password")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for plain HTTP fetches and downloads")
	cmd.Flags().Duration("render-timeout", config.DefaultRenderTimeout,
		"Timeout for rendering one page")
	cmd.Flags().Duration("render-wait", config.DefaultRenderWait,
		"Settle time between navigation and HTML capture in the browser renderer")
	cmd.Flags().Duration("download-timeout", config.DefaultDownloadTimeout,
		"Timeout for one asset download")
	cmd.Flags().StringP("config", "c", "",
		"Selector profile file path (default: .catacrawl in current or home directory)")
	cmd.Flags().Bool("no-db", false,
		"Disable crawl-history persistence")
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.CatalogURL, err = cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, err
	}

	cfg.UseBrowser, err = cmd.Flags().GetBool("browser")
	if err != nil {
		return nil, err
	}

	cfg.RemoteBrowserURL, err = cmd.Flags().GetString("remote-browser")
	if err != nil {
		return nil, err
	}
	if cfg.RemoteBrowserURL != "" {
		cfg.UseBrowser = true
	}

	cfg.RemoteBrowserToken, err = cmd.Flags().GetString("browser-token")
	if err != nil {
		return nil, err
	}

	cfg.ProxyURL, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}
	cfg.ProxyUser, err = cmd.Flags().GetString("proxy-user")
	if err != nil {
		return nil, err
	}
	cfg.ProxyPass, err = cmd.Flags().GetString("proxy-pass")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.RenderTimeout, err = cmd.Flags().GetDuration("render-timeout")
	if err != nil {
		return nil, err
	}
	cfg.RenderWait, err = cmd.Flags().GetDuration("render-wait")
	if err != nil {
		return nil, err
	}
	cfg.DownloadTimeout, err = cmd.Flags().GetDuration("download-timeout")
	if err != nil {
		return nil, err
	}

	cfg.NoDB, err = cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Load selector profiles from the config file. An explicitly given
	// path must exist; the default search may come up empty.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Profiles, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Profiles = &config.File{}
	}

	return cfg, nil
}

// buildRenderer creates the page renderer described by cfg.
func buildRenderer(cfg *config.Config) (render.Renderer, error) {
	client, err := render.NewClient(render.ProxyConfig{
		URL:      cfg.ProxyURL,
		Username: cfg.ProxyUser,
		Password: cfg.ProxyPass,
	}, cfg.RenderTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP client: %w", err)
	}

	if cfg.UseBrowser {
		opts := []render.ChromeOption{
			render.WithWait(cfg.RenderWait),
			render.WithTimeout(cfg.RenderTimeout),
		}
		if cfg.RemoteBrowserURL != "" {
			opts = append(opts, render.WithRemoteBrowser(cfg.RemoteBrowserURL, cfg.RemoteBrowserToken))
		}
		return render.NewChromeRenderer(opts...), nil
	}

	return render.NewHTTPRenderer(client,
		render.WithUserAgent(cfg.UserAgent),
		render.WithMaxBodySize(cfg.MaxBodySize),
	), nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the structured logger used by every command.
// Proxy and browser credentials pass through log attributes, so the
// handler masks sensitive keys and token-bearing URLs.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSanitizingLogger(os.Stderr, verbose)
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
