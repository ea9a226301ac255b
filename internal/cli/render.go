package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainstack/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags  orderFlags
		ropts  pipeline.RenderOptions
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <network>",
		Short: "Draw a drainage network as a node-link diagram",
		Long: `Draw a drainage network with Graphviz. Arrows point from donor to receiver
and roots are highlighted. --detailed labels each node with its stack
position and basin; --clusters boxes each basin.

Rendering is meant for small networks; larger ones are refused unless
--max-nodes is raised.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := ropts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if output == "" {
				output = defaultRenderPath(args[0], ropts.Format)
			}

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer runner.Close()

			nw, err := runner.Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load network: %w", err)
			}
			opts := flags.options(cmd, c.Config)
			data, hit, err := runner.Render(ctx, nw, opts, ropts)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printSuccess("Rendered %s", strings.ToUpper(ropts.Format))
			printFile(output)
			nroots := len(opts.Roots)
			if nroots == 0 {
				nroots = len(nw.ResolvedRoots())
			}
			printStats(nw.Len(), nroots, hit)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ropts.Format, "format", "f", pipeline.FormatSVG, "output format: svg, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <network>.<format>)")
	cmd.Flags().BoolVar(&ropts.Detailed, "detailed", false, "label nodes with stack position and basin")
	cmd.Flags().BoolVar(&ropts.Clusters, "clusters", false, "group each basin into a cluster")
	cmd.Flags().IntVar(&ropts.MaxNodes, "max-nodes", 0, "largest network to render (default 2000)")

	return cmd
}

// defaultRenderPath replaces the network file's extension with format.
func defaultRenderPath(network, format string) string {
	return strings.TrimSuffix(network, filepath.Ext(network)) + "." + format
}
