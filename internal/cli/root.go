package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Linebreak finds optimal line breaks",
		Long: `Linebreak breaks paragraphs into lines with the Knuth-Plass algorithm:
it chooses the breakpoints of a whole paragraph at once so that the spacing
of all lines together is as even as possible.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, commandLogger(c.Logger, cmd)))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: linebreak.toml in . or the user config dir)")

	root.AddCommand(c.breakCommand())
	root.AddCommand(c.textCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
