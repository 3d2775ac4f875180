// Package cli implements the gridcanvas command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/buildinfo"
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/config"
	"github.com/matzehuels/gridcanvas/pkg/errors"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/session"
	"github.com/matzehuels/gridcanvas/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "gridcanvas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath  string
	backend     string
	key         string
	catalogPath string
	containerPx float64
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "gridcanvas lays out dashboard widgets on a grid canvas",
		Long: `gridcanvas manages a dashboard canvas: widgets from a catalog are placed on a
column grid, dragged and resized under their size and aspect-ratio constraints,
and persisted to a storage backend.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&c.backend, "storage", "", "storage backend: memory, file, sqlite, redis, mongo")
	flags.StringVar(&c.key, "key", "", "storage key of the canvas")
	flags.StringVar(&c.catalogPath, "catalog", "", "widget catalog file (TOML)")
	flags.Float64Var(&c.containerPx, "width", 0, "container width in pixels")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.paramsCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.containerCommand())
	root.AddCommand(c.permissionsCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storageCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	path := c.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if c.backend != "" {
		cfg.Storage.Backend = c.backend
	}
	if c.key != "" {
		cfg.Storage.Key = c.key
	}
	if c.catalogPath != "" {
		cfg.CatalogPath = c.catalogPath
	}
	if c.containerPx > 0 {
		cfg.Grid.ContainerWidthPx = c.containerPx
	}
	return cfg, cfg.Validate()
}

// loadCatalog returns the configured catalog, or the builtin one.
func loadCatalog(cfg config.Config) (*catalog.Memory, error) {
	if cfg.CatalogPath == "" {
		return catalog.Builtin(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

// openSession loads the configured canvas. The returned close function
// reports a failed save and releases the storage backend.
func (c *CLI) openSession(ctx context.Context) (*session.Session, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("close storage", "error", err)
		}
	}

	sess, err := session.New(session.Options{
		Grid:        cfg.Grid,
		Catalog:     cat,
		Storage:     store,
		Key:         cfg.Storage.Key,
		Permissions: permission.NewSet(cfg.Permissions.Granted...),
		Views:       cfg.Permissions.Views,
		Logger:      c.Logger,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	c.Logger.Debug("opening canvas", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)
	sess.Open(ctx)

	release := func() {
		if err := sess.SaveErr(); err != nil {
			printError("Canvas not saved: %s", errors.UserMessage(err))
		}
		closeStore()
	}
	return sess, release, nil
}
