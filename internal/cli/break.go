package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/errors"
	lbio "github.com/matzehuels/linebreak/pkg/io"
	"github.com/matzehuels/linebreak/pkg/knuth"
	"github.com/matzehuels/linebreak/pkg/pipeline"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// breakCommand creates the break command for element sequences.
func (c *CLI) breakCommand() *cobra.Command {
	var (
		bf     breakFlags
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "break FILE...",
		Short: "Find optimal breaks of element sequences",
		Long: `Break reads element sequences (JSON files of boxes, glue and penalties)
and prints the optimal parts of each. Several files are broken concurrently.`,
		Example: `  linebreak break paragraph.json --width 6000
  linebreak break a.json b.json --format json -o parts.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != outputTable && format != outputJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be table or json)", format)
			}
			return c.runBreak(cmd, args, c.options(cmd, &bf, nil), bf.noCache, format, output)
		},
	}

	bf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", outputTable, "output format: table, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to a file instead of stdout")
	return cmd
}

func (c *CLI) runBreak(cmd *cobra.Command, paths []string, opts pipeline.Options, noCache bool, format, output string) error {
	ctx := cmd.Context()
	seqs := make([]*knuth.Sequence, len(paths))
	for i, path := range paths {
		seq, err := importSequence(path)
		if err != nil {
			return err
		}
		seqs[i] = seq
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	watch := startStopwatch(logger)
	var results []*pipeline.Result
	if len(seqs) == 1 {
		res, err := runner.Break(ctx, seqs[0], opts)
		if err != nil {
			return err
		}
		results = []*pipeline.Result{res}
	} else {
		spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Breaking %d sequences...", len(seqs)))
		spinner.Start()
		results, err = runner.BreakAll(ctx, seqs, opts)
		spinner.Stop()
		if err != nil {
			return err
		}
		watch.done("broke sequences", "count", len(seqs))
	}

	for i, res := range results {
		logResult(logger, paths[i], res)
	}

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", output)
		}
		defer f.Close()
		w = f
	}

	if format == outputJSON {
		if err := writeResults(w, results); err != nil {
			return err
		}
	} else {
		for i, res := range results {
			if len(results) > 1 {
				fmt.Fprintln(w, StyleTitle.Render(filepath.Base(paths[i])))
			}
			fmt.Fprintln(w, partsTable(res.Parts))
			printStats(w, res)
		}
	}
	for i, res := range results {
		if res.Overflow {
			printWarning(cmd.ErrOrStderr(), "%s: some parts overflow the line width", paths[i])
		}
	}
	if output != "" {
		printSuccess(cmd.ErrOrStderr(), "Wrote %d solution(s)", len(results))
		printFile(cmd.ErrOrStderr(), output)
	}
	return nil
}

// importSequence reads a sequence file with coded errors.
func importSequence(path string) (*knuth.Sequence, error) {
	seq, err := lbio.ImportSequence(path)
	switch {
	case err == nil:
		return seq, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	case stderrors.Is(err, knuth.ErrInvalidAtom), stderrors.Is(err, lbio.ErrUnknownType):
		return nil, errors.Wrap(errors.ErrCodeInvalidAtom, err, "read %s", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidSequence, err, "read %s", path)
	}
}

// writeResults writes one solution as an object, several as an array.
func writeResults(w io.Writer, results []*pipeline.Result) error {
	solutions := make([]*knuth.Result, len(results))
	for i, res := range results {
		solutions[i] = &knuth.Result{
			Parts:    res.Parts,
			Demerits: res.Demerits,
			Passes:   res.Passes,
			Overflow: res.Overflow,
		}
	}
	if len(solutions) == 1 {
		return lbio.WriteResult(solutions[0], w)
	}

	converted := make([]lbio.Result, len(solutions))
	for i, s := range solutions {
		converted[i] = lbio.NewResult(s)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(converted)
}
