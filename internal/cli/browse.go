package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the browse command, an interactive section browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		strategies string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "browse FILE.md",
		Short: "Browse sections and preview their diagrams interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, sections, err := readSections(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			gen, closeCache, err := c.generatorFor(ctx, noCache, strategies)
			if err != nil {
				return err
			}
			defer closeCache()

			model := NewSectionBrowserModel(ctx, sections, gen.Generate)
			_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&strategies, "strategy", "", "comma separated strategy order (default from config)")
	addCacheFlag(cmd, &noCache)
	return cmd
}
