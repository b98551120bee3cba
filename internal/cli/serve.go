package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mdgraph/internal/server"
	"github.com/matzehuels/mdgraph/pkg/errors"
	"github.com/matzehuels/mdgraph/pkg/workspace"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for stateless diagram generation and rendering and for
editing workspaces (a markdown document with one diagram per section).

The server shuts down gracefully on interrupt. Export is disabled when
neither headless Chrome nor rsvg-convert is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}

			ch, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer ch.Close()

			gen, err := c.newGenerator(ch, "")
			if err != nil {
				return err
			}
			r, err := c.newRenderer(ch, "")
			if err != nil {
				return err
			}
			exp, err := c.newExporter(ch, "")
			if err != nil {
				printWarning("Export disabled: %s", errors.UserMessage(err))
			}

			store := workspace.NewStore(gen, workspace.StoreOptions{
				Debounce: cfg.Workspace.Debounce,
				IdleTTL:  cfg.Workspace.IdleTTL,
				Logger:   logger,
			})
			srv := server.New(server.Deps{
				Generator: gen,
				Renderer:  r,
				Exporter:  exp,
				Store:     store,
				Logger:    logger,
			})

			printKeyValue("Listening", "http://"+addr)
			printKeyValue("Strategies", strings.Join(gen.Strategies(), ", "))
			return srv.ListenAndServe(ctx, addr, cfg.Server.CleanupInterval)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	addCacheFlag(cmd, &noCache)
	return cmd
}
