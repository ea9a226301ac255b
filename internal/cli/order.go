package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	dsio "github.com/matzehuels/drainstack/pkg/io"
	"github.com/matzehuels/drainstack/pkg/pipeline"
)

// spinnerThreshold is the network size above which order shows a spinner.
const spinnerThreshold = 1_000_000

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		flags  orderFlags
		output string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "order <network>",
		Short: "Compute the stack order of a drainage network",
		Long: `Compute the stack order of a drainage network.

The network is read from JSON, TOML or whitespace-separated text, chosen by
file extension. Without --roots, every node that is its own receiver is a
root, in ascending order. The result is written as JSON to --output, or to
stdout when no output file is given.`,
		Example: `  drainstack order mesh.json -o stack.json
  drainstack order mesh.txt --roots 4,7 --builder recursive
  drainstack order mesh.toml --workers 8 --verify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			opts.Verify = verify
			return c.runOrder(cmd.Context(), args[0], output, flags.noCache, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&verify, "verify", false, "check the stack before writing it")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, path, output string, noCache bool, opts pipeline.Options) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer runner.Close()

	nw, err := runner.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	prog := newProgress(c.Logger)
	var spin *Spinner
	if output != "" && nw.Len() >= spinnerThreshold {
		spin = newSpinner(ctx, fmt.Sprintf("Ordering %d nodes...", nw.Len()))
		spin.Start()
	}
	res, err := runner.Order(ctx, nw, opts)
	if spin != nil {
		switch {
		case err == nil:
			spin.Stop()
		case spin.Cancelled():
			spin.Stop()
			printInfo("Interrupted")
		default:
			spin.StopWithError("Ordering failed")
		}
	}
	if err != nil {
		return fmt.Errorf("order %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Ordered %d nodes", res.Stats.Nodes))

	if output == "" {
		return dsio.WriteResult(res.Order, os.Stdout)
	}
	if err := dsio.ExportResult(res.Order, output); err != nil {
		return err
	}
	printSuccess("Stack order written")
	printFile(output)
	printStats(res.Stats.Nodes, res.Stats.Roots, res.CacheInfo.OrderHit)
	printKeyValue("builder", res.Order.Builder)
	printKeyValue("run", res.Order.ID)
	return nil
}
