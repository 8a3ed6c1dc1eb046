package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/core"
	"github.com/jmontes/listry/pkg/filter"
	"github.com/urfave/cli/v3"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	disabledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)
)

// FiltersCommand creates the filters command
func FiltersCommand() *cli.Command {
	return &cli.Command{
		Name:  "filters",
		Usage: "List the configured filters in registry order",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "enabled",
				Usage: "Show only enabled filters",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return listFilters(c.String("config"), c.Bool("enabled"))
		},
	}
}

func listFilters(configPath string, enabledOnly bool) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry, err := buildRegistry(cfg, core.NewNotifier())
	if err != nil {
		return fmt.Errorf("building filter registry: %w", err)
	}

	filters := registry.List(filter.ListOptions{EnabledOnly: enabledOnly})
	if len(filters) == 0 {
		fmt.Println(noDataStyle.Render("No filters configured."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-16s %-12s %-20s %-9s %s", "NAME", "TYPE", "LABEL", "PRIORITY", "PARAMS")))
	for _, f := range filters {
		line := fmt.Sprintf("%-16s %-12s %-20s %-9d %s",
			f.Name(), f.Type(), f.Label(), f.Priority(), strings.Join(f.URLParams(), ", "))
		if !f.Enabled() {
			line = disabledStyle.Render(line)
		}
		fmt.Println(line)
	}

	return nil
}
