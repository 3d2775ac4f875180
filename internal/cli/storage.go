package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/pkg/config"
	"github.com/matzehuels/gridcanvas/pkg/storage"
)

// storageCommand creates the storage management command.
func (c *CLI) storageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage the stored canvas",
	}

	cmd.AddCommand(c.storageResetCommand())
	cmd.AddCommand(c.storagePathCommand())

	return cmd
}

// storageResetCommand creates the "storage reset" subcommand.
func (c *CLI) storageResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored canvas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := storage.Open(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer store.Close()

			_, ok, err := store.Get(cmd.Context(), cfg.Storage.Key)
			if err != nil {
				return err
			}
			if !ok {
				printInfo("Canvas is empty")
				return nil
			}
			if err := store.Delete(cmd.Context(), cfg.Storage.Key); err != nil {
				return err
			}
			printSuccess("Deleted canvas %s", StyleHighlight.Render(cfg.Storage.Key))
			printDetail("Backend: %s", cfg.Storage.Backend)
			return nil
		},
	}
}

// storagePathCommand creates the "storage path" subcommand.
func (c *CLI) storagePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the canvas is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location(cfg.Storage))
			return nil
		},
	}
}

// location describes where the backend keeps the canvas.
func location(s config.Storage) string {
	switch s.Backend {
	case config.BackendFile:
		f, err := storage.NewFile(s.Dir)
		if err != nil {
			return s.Dir
		}
		return f.Path(s.Key)
	case config.BackendSQLite:
		return s.Path
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d %s%s", s.RedisAddr, s.RedisDB, s.RedisPrefix, s.Key)
	case config.BackendMongo:
		return fmt.Sprintf("%s %s.%s _id=%s", s.MongoURI, s.MongoDatabase, s.MongoCollection, s.Key)
	default:
		return "(memory)"
	}
}
