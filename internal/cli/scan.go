package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/baseline/pkg/feature"
	"github.com/matzehuels/baseline/pkg/report"
)

// scanOptions holds flags for the scan command.
type scanOptions struct {
	language string
	json     bool
	noCache  bool
	minScore int
}

// scanResult is the JSON form of one scanned file.
type scanResult struct {
	File     string             `json:"file"`
	Language feature.Language   `json:"language"`
	Score    int                `json:"score"`
	Summary  report.Summary     `json:"summary"`
	Features []feature.Detected `json:"features"`
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <file>...",
		Short: "Detect web platform features in CSS and JavaScript files",
		Long: `Scan detects modern web platform features in each file and prints where
they occur, their Baseline status, a compatibility score and recommendations.

The language is inferred from the file extension unless --language is given.
Use "-" to read from stdin (requires --language).`,
		Example: `  baseline scan styles.css
  baseline scan app.ts --json
  cat main.js | baseline scan - --language javascript
  baseline scan src/*.css --min-score 80`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "language of the input (css, javascript, typescript)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the catalog cache tier")
	cmd.Flags().IntVar(&opts.minScore, "min-score", 0, "fail when any file scores below this value")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, args []string, opts scanOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	docs := make([]document, 0, len(args))
	for _, path := range args {
		doc, err := readDocument(path, opts.language, cmd.InOrStdin())
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	eng, err := c.newEngine(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer eng.Close()

	if !opts.json {
		c.warmCatalog(ctx, eng)
	}

	prog := newProgress(logger)
	out := cmd.OutOrStdout()
	results := make([]scanResult, 0, len(docs))
	total := 0
	for i, doc := range docs {
		features := eng.detector.Detect(ctx, doc.Source, doc.Language)
		if err := ctx.Err(); err != nil {
			return err
		}
		total += len(features)
		res := scanResult{
			File:     doc.Path,
			Language: doc.Language,
			Score:    report.Score(features),
			Summary:  report.Summarize(features),
			Features: features,
		}
		results = append(results, res)

		if opts.json {
			continue
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		renderFeatures(out, doc.Path, features)
		renderSummary(out, res.Summary, res.Score)
		renderRecommendations(out, report.Recommend(features))
	}
	if !opts.json && len(docs) > 1 {
		prog.done(fmt.Sprintf("Scanned %d files, %d features", len(docs), total))
	}

	if opts.json {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	}
	return checkMinScore(results, opts.minScore)
}

// checkMinScore fails when a result scores below minScore.
func checkMinScore(results []scanResult, minScore int) error {
	if minScore <= 0 {
		return nil
	}
	for _, r := range results {
		if r.Score < minScore {
			return fmt.Errorf("%s scored %d, below the minimum of %d", r.File, r.Score, minScore)
		}
	}
	return nil
}

// warmCatalog loads the catalog behind a spinner so the first detection
// does not stall silently. A failure is reported and detection continues
// with unknown statuses.
func (c *CLI) warmCatalog(ctx context.Context, eng *engine) {
	spinner := newSpinnerWithContext(ctx, "Loading feature catalog...")
	spinner.Start()
	_, err := eng.client.Catalog(ctx)
	if err == nil || spinner.Cancelled() {
		spinner.Stop()
		return
	}
	spinner.StopWithError("Feature catalog unavailable, statuses will be unknown")
	printDetail("%v", err)
}
