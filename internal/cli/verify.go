package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	dsio "github.com/matzehuels/drainstack/pkg/io"
	"github.com/matzehuels/drainstack/pkg/pipeline"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	var roots []int

	cmd := &cobra.Command{
		Use:   "verify <network> <stack.json>",
		Short: "Check a stack order against its network",
		Long: `Check that a stack order written by "drainstack order" is valid for a
network: every node appears once, after its receiver, and every subtree is
contiguous. The roots recorded in the stack file are used unless --roots is
given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := pipeline.NewRunner(nil, nil, c.Logger)

			nw, err := runner.Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load network: %w", err)
			}
			res, err := dsio.ImportResult(args[1])
			if err != nil {
				return fmt.Errorf("load stack: %w", err)
			}

			opts := pipeline.Options{Roots: roots}
			if len(opts.Roots) == 0 {
				opts.Roots = res.Roots
			}
			if err := runner.Verify(ctx, nw, res.Stack, opts); err != nil {
				return fmt.Errorf("verify %s: %w", args[1], err)
			}
			nroots := len(opts.Roots)
			if nroots == 0 {
				nroots = len(nw.ResolvedRoots())
			}
			printSuccess("Stack order is valid")
			printDetail("%d nodes, %d roots", nw.Len(), nroots)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&roots, "roots", nil, "roots to check against (default: the roots in the stack file)")
	return cmd
}
