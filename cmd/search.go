package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/search"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	datasetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0, 0, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search across all datasets",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Dataset type to search (all, sql or json)",
				Value: search.TypeAll,
			},
			&cli.BoolFlag{
				Name:  "case-sensitive",
				Usage: "Match case exactly",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Treat the query as a regular expression",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results (0 means unlimited)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return fmt.Errorf("search query is required")
			}
			opts := search.Options{
				Type:          c.String("type"),
				CaseSensitive: c.Bool("case-sensitive"),
				Regex:         c.Bool("regex"),
				Limit:         c.Int("limit"),
			}
			return searchDatasets(c.String("config"), query, opts)
		},
	}
}

func searchDatasets(configPath, query string, opts search.Options) error {
	cfg, _, engine, cleanup, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Printf("Warning: failed to close storage: %v\n", err)
		}
	}()

	if err := cfg.ValidateQuery(query); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	if err := cfg.ValidateLimit(opts.Limit); err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}

	result, err := engine.Search(query, opts)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Search: %s", result.Query)))

	if len(result.Results) == 0 {
		fmt.Println(noDataStyle.Render("No results found"))
		return nil
	}

	for i, match := range result.Results {
		header := fmt.Sprintf("%d. %s", i+1, datasetStyle.Render(match.Dataset))
		meta := metaStyle.Render(fmt.Sprintf("(%s, score %d)", match.Type, match.RelevanceScore))
		fmt.Printf("%s %s\n", header, meta)
		fmt.Println(previewStyle.Render(renderMatch(match)))
	}

	summary := fmt.Sprintf("%d results across %d datasets", result.TotalResults, result.DatasetsSearched)
	if result.Limited {
		summary += fmt.Sprintf(" (showing %d)", result.ResultsReturned)
	}
	fmt.Println(summaryStyle.Render(summary))

	return nil
}

// renderMatch formats the evidence for one result: the preview for SQL
// aggregates, the location for JSON matches.
func renderMatch(match search.Match) string {
	if match.Type == core.KindSQL {
		return fmt.Sprintf("%d occurrences\n%s", match.MatchCount, match.ContentPreview)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s match at %s", match.MatchType, match.Path)
	if match.Key != "" {
		fmt.Fprintf(&b, "\nkey: %s", match.Key)
	}
	if match.Value != nil {
		fmt.Fprintf(&b, "\nvalue: %v", match.Value)
	}
	return b.String()
}
