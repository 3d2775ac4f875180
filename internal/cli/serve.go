package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridcanvas/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the canvas over HTTP",
		Long: `Serve the canvas as a JSON API for a browser front end. The front end reports
pointer gestures to /api/widgets/{id}/layout with the gesture phase, and every
committed change is written through to the configured storage backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			sess, closeStore, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			printInfo("Serving %d widgets on %s", len(sess.Instances()), StyleLink.Render("http://"+addr))
			return server.Run(cmd.Context(), addr, server.New(sess, c.Logger))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
