package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/pkg/report"
)

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		language string
		asJSON   bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Print a compatibility report for a file",
		Long: `Report groups the features of a file by Baseline status and prints the
compatibility score, its grade and recommendations for features that are
not yet widely available.`,
		Example: `  baseline report styles.css
  baseline report app.ts --json > report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], language, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, err := c.newEngine(ctx, noCache)
			if err != nil {
				return err
			}
			defer eng.Close()

			if !asJSON {
				c.warmCatalog(ctx, eng)
			}
			features := eng.detector.Detect(ctx, doc.Source, doc.Language)
			if err := ctx.Err(); err != nil {
				return err
			}

			r := report.Generate(features)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			renderReport(cmd.OutOrStdout(), doc.Path, r)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language of the input (css, javascript, typescript)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the catalog cache tier")

	return cmd
}
