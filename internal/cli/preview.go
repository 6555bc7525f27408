package cli

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linebreak/pkg/errors"
	"github.com/matzehuels/linebreak/pkg/pipeline"
	"github.com/matzehuels/linebreak/pkg/text"
)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		bf = breakFlags{cells: true}
		tf textFlags
	)

	cmd := &cobra.Command{
		Use:   "preview [FILE]",
		Short: "Preview a text interactively at a changing width",
		Long: `Preview breaks a text and redraws it as the width, alignment or
hyphenation changes. The width follows the terminal until it is changed
with the arrow keys or set with --width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if err := errors.ValidateText(input); err != nil {
				return err
			}

			opts := c.options(cmd, &bf, &tf)
			units := opts.UnitsPerCell
			if units <= 0 {
				units = text.DefaultUnitsPerCell
			}
			if opts.Alignment == "" {
				opts.Alignment = pipeline.DefaultAlignment
			}

			// Every keystroke rebreaks, so nothing is cached, and logs would
			// draw over the alternate screen.
			quiet := newLogger(io.Discard, LogInfo)
			opts.Logger = quiet
			runner := pipeline.NewRunner(nil, nil, quiet)
			m := NewPreviewModel(cmd.Context(), runner, input, opts, opts.Width/units)
			m.FixedWidth = cmd.Flags().Changed("width")

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	bf.register(cmd)
	tf.register(cmd)
	return cmd
}
