package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/report"
)

// hoverCommand creates the hover command, which prints what an editor
// would show when hovering the given position.
func (c *CLI) hoverCommand() *cobra.Command {
	var (
		language string
		line     int
		column   int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "hover <file>",
		Short: "Show the feature at a line and column",
		Long: `Hover resolves the feature at a 1-based line and 0-based column and
prints its hover text: status, description, Baseline date, browser support
and links. A column near, but not on, a feature still resolves to it.`,
		Example: `  baseline hover styles.css --line 12 --column 4
  baseline hover app.js -L 3 -C 18 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bserrors.ValidatePosition(line, column); err != nil {
				return err
			}
			doc, err := readDocument(args[0], language, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, err := c.newEngine(ctx, false)
			if err != nil {
				return err
			}
			defer eng.Close()

			f, ok := eng.detector.FeatureAt(ctx, doc.Source, doc.Language, line, column)
			if err := ctx.Err(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if !ok {
					return writeJSON(out, nil)
				}
				return writeJSON(out, f)
			}
			if !ok {
				printInfo("No feature at %s:%d:%d", doc.Path, line, column)
				return nil
			}
			fmt.Fprintln(out, report.Hover(f))
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the input (css, javascript, typescript)")
	cmd.Flags().IntVarP(&line, "line", "L", 1, "1-based line")
	cmd.Flags().IntVarP(&column, "column", "C", 0, "0-based column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the feature as JSON")

	return cmd
}
