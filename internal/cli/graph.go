package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/breakgraph"
	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/pipeline"
	"github.com/matzehuels/linebreak/pkg/text"
)

// graphCommand creates the graph command that renders the feasible breaks
// explored by a run.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		bf       breakFlags
		tf       textFlags
		format   string
		output   string
		fromText bool
		gopts    breakgraph.Options
	)

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Render the break graph of a sequence",
		Long: `Graph records every feasible break considered while breaking FILE and
renders them as a Graphviz graph. The chosen breaks are highlighted.

FILE is an element sequence, or plain text with --text (widths are then
given in columns).`,
		Example: `  linebreak graph paragraph.json -f svg -o graph.svg
  linebreak graph notes.txt --text --width 40 --detailed -f dot`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			bf.cells = fromText
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pipeline.ValidateGraphFormat(format); err != nil {
				return err
			}
			opts := c.options(cmd, &bf, &tf)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			var seq *knuth.Sequence
			if fromText {
				input, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				if err := errors.ValidateText(input); err != nil {
					return err
				}
				par, err := text.Build(input, opts.TextOptions())
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidAtom, err, "build sequence from text")
				}
				seq = par.Seq
			} else {
				s, err := importSequence(args[0])
				if err != nil {
					return err
				}
				seq = s
			}

			runner, err := c.newRunner(ctx, bf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), "Rendering break graph...")
			if format != pipeline.FormatDOT {
				spinner.Start()
			}
			data, hit, err := runner.GraphWithCacheInfo(ctx, seq, format, gopts, opts)
			if format != pipeline.FormatDOT {
				spinner.Stop()
			}
			if err != nil {
				return err
			}

			if output == "" {
				if format == pipeline.FormatPNG {
					output = pngName(args[0])
				} else {
					_, err := cmd.OutOrStdout().Write(data)
					return err
				}
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
			}
			status := iconFresh
			if hit {
				status = iconCached
			}
			printSuccess(cmd.ErrOrStderr(), "Rendered %s graph (%s)", format, status)
			printFile(cmd.ErrOrStderr(), output)
			return nil
		},
	}

	bf.register(cmd)
	tf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout for dot and svg when empty)")
	cmd.Flags().BoolVar(&fromText, "text", false, "read FILE as plain text")
	cmd.Flags().BoolVar(&gopts.Detailed, "detailed", false, "label nodes with ratios, fitness and demerits")
	cmd.Flags().BoolVar(&gopts.SelectedOnly, "selected-only", false, "draw only the chosen breaks")
	return cmd
}

// pngName derives the PNG file name of an input: "par.json" becomes "par.png".
func pngName(input string) string {
	if input == "-" {
		return "breakgraph.png"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
}
