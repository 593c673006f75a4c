package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spreadsent/pkg/mcp"
	"github.com/Sumatoshi-tech/spreadsent/pkg/observability"
	"github.com/Sumatoshi-tech/spreadsent/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Lexicons are loaded once at startup. The server exposes:
  - spreadsent_score: sentiment score of one text or a timeline, with intensity
  - spreadsent_normalize: token sequence and n-grams of a text`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(g, observability.ModeMCP, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			red, err := observability.NewREDMetrics(a.providers.Meter)
			if err != nil {
				return err
			}

			engine, err := a.engine(cmd.Context())
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Engine:  engine,
				Version: version.Version,
				Logger:  a.logger,
				Metrics: red,
				Tracer:  a.providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}
}
