package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	bserrors "github.com/matzehuels/baseline/pkg/errors"
	"github.com/matzehuels/baseline/pkg/integrations/webstatus"
	"github.com/matzehuels/baseline/pkg/report"
)

// featuresOptions holds flags for the features command.
type featuresOptions struct {
	status      string
	limit       int
	json        bool
	interactive bool
	noCache     bool
}

var catalogStatuses = []string{"", "all", webstatus.RawWidely, webstatus.RawNewly, webstatus.RawLimited}

// featuresCommand creates the catalog explorer.
func (c *CLI) featuresCommand() *cobra.Command {
	var opts featuresOptions

	cmd := &cobra.Command{
		Use:   "features [query]",
		Short: "Search the web-features catalog",
		Long: `Features searches the web-features catalog by name, id and description.
With --interactive it opens a browser where enter shows the selected
feature's details.`,
		Example: `  baseline features grid
  baseline features --status limited --limit 20
  baseline features -i
  baseline features stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return c.runFeatures(cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.status, "status", "s", "", "filter by status (widely, newly, limited)")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", webstatus.DefaultFilterLimit, "maximum number of results")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print results as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse results interactively")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the catalog cache tier")

	cmd.AddCommand(c.featuresStatsCommand())
	return cmd
}

func validStatus(s string) bool {
	for _, known := range catalogStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (c *CLI) loadCatalog(cmd *cobra.Command, noCache bool) ([]webstatus.Feature, error) {
	ctx := cmd.Context()
	eng, err := c.newEngine(ctx, noCache)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	spinner := newSpinnerWithContext(ctx, "Loading feature catalog...")
	spinner.Start()
	features, err := eng.client.Catalog(ctx)
	spinner.Stop()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, bserrors.Wrap(bserrors.ErrCodeNetwork, err, "load feature catalog from %s", eng.client.Endpoint())
	}
	return features, nil
}

func (c *CLI) runFeatures(cmd *cobra.Command, query string, opts featuresOptions) error {
	if !validStatus(opts.status) {
		return bserrors.New(bserrors.ErrCodeInvalidInput, "unknown status %q (want widely, newly or limited)", opts.status)
	}
	if opts.limit < 0 {
		return bserrors.New(bserrors.ErrCodeInvalidInput, "--limit must not be negative")
	}

	features, err := c.loadCatalog(cmd, opts.noCache)
	if err != nil {
		return err
	}
	matched := webstatus.Filter(features, query, opts.status, opts.limit)

	out := cmd.OutOrStdout()
	switch {
	case opts.json:
		if matched == nil {
			matched = []webstatus.Feature{}
		}
		return writeJSON(out, matched)
	case opts.interactive:
		if len(matched) == 0 {
			printInfo("No matching features")
			return nil
		}
		final, err := tea.NewProgram(newFeatureListModel(matched), tea.WithContext(cmd.Context())).Run()
		if err != nil {
			return err
		}
		if m, ok := final.(FeatureListModel); ok && m.Selected != nil {
			fmt.Fprintln(out, report.Hover(webstatus.Describe(m.Selected)))
		}
		return nil
	default:
		renderCatalog(out, matched)
		return nil
	}
}

// featuresStatsCommand creates the "features stats" subcommand.
func (c *CLI) featuresStatsCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count catalog features by Baseline status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			features, err := c.loadCatalog(cmd, noCache)
			if err != nil {
				return err
			}
			stats := webstatus.Count(features)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			renderStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print counts as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the catalog cache tier")
	return cmd
}
