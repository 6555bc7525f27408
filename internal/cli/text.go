package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/text"
)

const outputText = "text"

// textCommand creates the text command for breaking plain text.
func (c *CLI) textCommand() *cobra.Command {
	var (
		bf     = breakFlags{cells: true}
		tf     textFlags
		format string
		ruler  bool
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "text [FILE]",
		Short: "Break plain text into lines",
		Long: `Text reads plain text from FILE, or from stdin when FILE is missing or "-",
breaks every paragraph and prints the lines laid out in terminal columns.`,
		Example: `  linebreak text README --width 72
  cat notes.txt | linebreak text --align center --reflow
  linebreak text essay.txt --format table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case outputText, outputTable, outputJSON:
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be text, table or json)", format)
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			opts := c.options(cmd, &bf, &tf)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), bf.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, err := runner.BreakText(cmd.Context(), input, opts)
			if err != nil {
				return err
			}
			logResult(loggerFromContext(cmd.Context()), inputName(args), res)

			w := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				if err := writeLines(w, res.Lines); err != nil {
					return err
				}
			case outputTable:
				fmt.Fprintln(w, partsTable(res.Parts))
			default:
				if ruler {
					fmt.Fprintln(w, StyleDim.Render(strings.Repeat("─", opts.Width/opts.UnitsPerCell)))
				}
				align, last := opts.Alignments()
				fmt.Fprintln(w, text.Render(res.Lines, align, last, opts.UnitsPerCell))
			}
			if stats {
				printStats(cmd.ErrOrStderr(), res)
			}
			if res.Overflow {
				printWarning(cmd.ErrOrStderr(), "some lines overflow the width")
			}
			return nil
		},
	}

	bf.register(cmd)
	tf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", outputText, "output format: text, table, json")
	cmd.Flags().BoolVar(&ruler, "ruler", false, "print a ruler of the line width above the text")
	cmd.Flags().BoolVar(&stats, "stats", false, "print run statistics to stderr")
	return cmd
}

// readInput reads the file named by args[0], or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", args[0])
		}
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read %s", args[0])
	}
	return string(data), nil
}

// inputName names the input in logs.
func inputName(args []string) string {
	if len(args) == 0 || args[0] == "-" {
		return "stdin"
	}
	return args[0]
}

type lineJSON struct {
	Number   int     `json:"number"`
	Text     string  `json:"text"`
	Width    int     `json:"width"`
	Ratio    float64 `json:"ratio"`
	Overflow bool    `json:"overflow,omitempty"`
}

func writeLines(w io.Writer, lines []text.Line) error {
	out := make([]lineJSON, len(lines))
	for i, l := range lines {
		out[i] = lineJSON{Number: l.Number, Text: l.Text, Width: l.Width, Ratio: l.Ratio, Overflow: l.Overflow}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
