package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/drainage/synth"
	dsio "github.com/matzehuels/drainstack/pkg/io"
)

// generateCommand creates the generate command and its network shapes.
func (c *CLI) generateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic drainage networks",
		Long: `Generate synthetic drainage networks for testing and benchmarking.

The network is written to --output in the format given by its extension
(.json, .toml or text), or as JSON to stdout.`,
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	write := func(nw drainage.Network) error {
		if output == "" {
			return dsio.WriteNetwork(&nw, os.Stdout, dsio.FormatJSON)
		}
		if err := dsio.ExportNetwork(&nw, output); err != nil {
			return err
		}
		printSuccess("Generated %d nodes, %d roots", nw.Len(), len(nw.Roots))
		printFile(output)
		printNextStep("Compute its stack order", fmt.Sprintf("%s order %s", appName, output))
		return nil
	}

	var n int
	chain := &cobra.Command{
		Use:   "chain",
		Short: "A single flow path (deepest possible network)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := positive("nodes", n); err != nil {
				return err
			}
			return write(synth.Chain(n))
		},
	}
	chain.Flags().IntVarP(&n, "nodes", "n", 1000, "number of nodes")

	var spine, tooth int
	comb := &cobra.Command{
		Use:   "comb",
		Short: "A spine with a tooth hanging off every spine node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := positive("spine", spine); err != nil {
				return err
			}
			if tooth < 0 {
				return fmt.Errorf("tooth must not be negative, got %d", tooth)
			}
			return write(synth.Comb(spine, tooth))
		},
	}
	comb.Flags().IntVar(&spine, "spine", 100, "spine length")
	comb.Flags().IntVar(&tooth, "tooth", 10, "tooth length")

	var treeNodes int
	tree := &cobra.Command{
		Use:   "tree",
		Short: "A complete binary tree draining to node 0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := positive("nodes", treeNodes); err != nil {
				return err
			}
			return write(synth.BinaryTree(treeNodes))
		},
	}
	tree.Flags().IntVarP(&treeNodes, "nodes", "n", 1023, "number of nodes")

	var (
		rows, cols int
		seed       uint64
	)
	grid := &cobra.Command{
		Use:   "grid",
		Short: "A raster catchment draining to its border",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := positive("rows", rows); err != nil {
				return err
			}
			if err := positive("cols", cols); err != nil {
				return err
			}
			return write(synth.Grid(rows, cols, seed))
		},
	}
	grid.Flags().IntVar(&rows, "rows", 100, "grid rows")
	grid.Flags().IntVar(&cols, "cols", 100, "grid columns")
	grid.Flags().Uint64Var(&seed, "seed", 42, "random seed for the surface")

	cmd.AddCommand(chain, comb, tree, grid)
	return cmd
}

func positive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, v)
	}
	return nil
}
