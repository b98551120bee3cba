package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/pkg/buildinfo"
	"github.com/matzehuels/mdgraph/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The --config flag is read and the pipeline hooks are pointed at the CLI
// logger before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "mdgraph turns markdown sections into Mermaid diagrams",
		Long: `mdgraph splits a markdown document into heading sections, generates a
Mermaid diagram for each one, renders the diagrams to SVG and exports the
document with its diagrams as a paginated A4 PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.UseLogger(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mdgraph/config.toml)")

	root.AddCommand(c.sectionsCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
