// Package cli implements the reflow command-line interface.
//
// # Commands
//
//   - layout: settle a scene file and print every item's slot and position
//   - render: draw a settled scene as SVG, PDF or PNG, or as a scene tree
//   - simulate: replay a pointer script against a scene headlessly
//   - play: drag items around a scene in the terminal
//   - serve: preview service answering layout, hover and render requests
//   - properties: list the named container properties
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which includes
// every drag, reorder and settle the containers report. The preview service
// attaches a request-scoped logger to each request context.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reflow/pkg/buildinfo"
	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/config"
	"github.com/matzehuels/reflow/pkg/pipeline"
	"github.com/matzehuels/reflow/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "reflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetLogFormat switches the logger to text, json or logfmt output.
func (c *CLI) SetLogFormat(format string) error {
	return setLogFormat(c.Logger, format)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Reflow lays out and reorders items in auto-arranging containers",
		Long:         `Reflow is a layout engine for containers that arrange their children along an axis, wrap them into rows, and animate them into place while items are dragged to new slots.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.propertiesCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Scene Loading
// =============================================================================

// loadSpec reads a TOML or JSON scene file without building it.
func (c *CLI) loadSpec(path string) (*config.Scene, error) {
	spec, err := pipeline.LoadScene(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("scene loaded", "path", path, "containers", len(spec.Containers))
	return spec, nil
}

// loadScene reads a scene file and builds it. With ticks > 0 the scene runs
// exactly that many ticks; otherwise it runs until every container settles.
func (c *CLI) loadScene(path string, ticks int) (*config.Scene, *scene.Scene, error) {
	spec, err := c.loadSpec(path)
	if err != nil {
		return nil, nil, err
	}
	host, err := pipeline.Build(spec, ticks, c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build scene: %w", err)
	}
	return spec, host, nil
}

// completeFiles completes up to n TOML or JSON file arguments.
func completeFiles(n int) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"toml", "json"}, cobra.ShellCompDirectiveFilterFileExt
	}
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/reflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
