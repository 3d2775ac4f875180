package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gridcanvas.

To load completions:

Bash:
  $ source <(gridcanvas completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gridcanvas completion bash > /etc/bash_completion.d/gridcanvas
  # macOS:
  $ gridcanvas completion bash > $(brew --prefix)/etc/bash_completion.d/gridcanvas

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gridcanvas completion zsh > "${fpath[1]}/_gridcanvas"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ gridcanvas completion fish | source

  # To load completions for each session, execute once:
  $ gridcanvas completion fish > ~/.config/fish/completions/gridcanvas.fish

PowerShell:
  PS> gridcanvas completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> gridcanvas completion powershell > gridcanvas.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeInstanceIDs completes the first positional argument with the IDs
// of the widgets on the stored canvas.
func (c *CLI) completeInstanceIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	sess, closeStore, err := c.openSession(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer closeStore()

	var ids []string
	for _, w := range sess.Instances() {
		ids = append(ids, w.ID+"\t"+w.CatalogID)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeCatalogIDs completes the first positional argument with catalog entry IDs.
func (c *CLI) completeCatalogIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, e := range cat.Entries() {
		ids = append(ids, e.ID+"\t"+e.Title)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
