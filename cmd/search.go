package cmd

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/query"
	"github.com/urfave/cli/v3"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Margin(1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the listing directory from the terminal",
		ArgsUsage: "[keyword]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "filter",
				Usage: "Filter parameter as name=value (repeatable), e.g. price_min=100000",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Restrict the search to a category",
			},
			&cli.StringFlag{
				Name:  "orderby",
				Usage: "Sort field (date, title, views, random)",
			},
			&cli.StringFlag{
				Name:  "order",
				Usage: "Sort direction (asc, desc)",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Result page",
				Value: 1,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return searchListings(c.String("config"), searchArgs{
				keyword:  c.Args().First(),
				filters:  c.StringSlice("filter"),
				category: c.String("category"),
				orderBy:  c.String("orderby"),
				order:    c.String("order"),
				page:     c.Int("page"),
			})
		},
	}
}

type searchArgs struct {
	keyword  string
	filters  []string
	category string
	orderBy  string
	order    string
	page     int
}

// searchListings runs one search against the local database and prints the
// result page.
func searchListings(configPath string, args searchArgs) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	notifier := core.NewNotifier()
	registry, err := buildRegistry(cfg, notifier)
	if err != nil {
		return fmt.Errorf("building filter registry: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	params, err := buildParams(args)
	if err != nil {
		return err
	}
	req := core.NewSearchRequest(params)

	orchestrator := newOrchestrator(cfg, registry, notifier)

	var b *query.Builder
	if args.category != "" {
		b = orchestrator.BuildCategoryQuery(req, args.category)
	} else {
		b = orchestrator.BuildQuery(req)
	}
	b.SetPagination(req.Page(), cfg.PageSize)

	listings, hasMore, err := store.Execute(b)
	if err != nil {
		return fmt.Errorf("executing search: %w", err)
	}

	if len(listings) == 0 {
		fmt.Println(noDataStyle.Render("No listings matched."))
		return nil
	}

	for i, l := range listings {
		fmt.Printf("%d. %s\n", i+1, titleStyle.Render(l.Title))
		if l.Excerpt != "" {
			fmt.Printf("   %s\n", l.Excerpt)
		}
		meta := l.CreatedAt.Format("2006-01-02")
		if l.Category != "" {
			meta = l.Category + " | " + meta
		}
		fmt.Printf("   %s\n", metaStyle.Render(meta))
	}

	summary := fmt.Sprintf("%d listings on page %d", len(listings), req.Page())
	if hasMore {
		summary += " (more available)"
	}
	fmt.Println(summaryStyle.Render(summary))

	return nil
}

// buildParams translates CLI flags into the URL parameter form the filters
// read.
func buildParams(args searchArgs) (url.Values, error) {
	params := url.Values{}
	if args.keyword != "" {
		params.Set("keyword", args.keyword)
	}
	if args.orderBy != "" {
		params.Set("orderby", args.orderBy)
	}
	if args.order != "" {
		params.Set("order", args.order)
	}
	if args.page > 1 {
		params.Set("page", strconv.Itoa(args.page))
	}
	for _, f := range args.filters {
		name, value, ok := strings.Cut(f, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid filter %q, expected name=value", f)
		}
		params.Add(name, value)
	}
	return params, nil
}
