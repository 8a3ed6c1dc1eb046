package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmontes/listry/pkg/config"
	"github.com/jmontes/listry/pkg/core"
	"github.com/urfave/cli/v3"
)

// SeedCommand creates the seed command
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the database with sample listings for local development",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Usage: "Number of listings to generate",
				Value: 50,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return seedListings(c.String("config"), c.Int("count"))
		},
	}
}

var seedTitles = []string{
	"Riverside Cafe", "Harbor View Flat", "Old Town Bakery", "Hilltop B&B",
	"Corner Bookshop", "Seaside Apartment", "Garden Bistro", "Market Hall Stall",
	"Station Hotel", "Lighthouse Cottage",
}

var seedCategories = []string{"restaurants", "housing", "shops", "hotels"}

var seedCities = []string{"oviedo", "gijon"}

// seedListings generates deterministic-ish sample data so the search page has
// something to show right after init.
func seedListings(configPath string, count int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < count; i++ {
		title := seedTitles[i%len(seedTitles)]
		listing := core.Listing{
			ID:        uuid.New().String(),
			Title:     fmt.Sprintf("%s #%d", title, i+1),
			Content:   fmt.Sprintf("Sample description for %s.", title),
			Excerpt:   fmt.Sprintf("Sample listing %d", i+1),
			Category:  seedCategories[rng.Intn(len(seedCategories))],
			Status:    core.StatusPublished,
			CreatedAt: time.Now().AddDate(0, 0, -rng.Intn(365)),
			Meta: map[string]string{
				"price":   strconv.Itoa((rng.Intn(95) + 5) * 10000),
				"views":   strconv.Itoa(rng.Intn(5000)),
				"city":    seedCities[rng.Intn(len(seedCities))],
				"phone":   fmt.Sprintf("600%06d", rng.Intn(1000000)),
				"address": fmt.Sprintf("Calle Mayor %d", rng.Intn(200)+1),
			},
		}
		if err := store.StoreListing(listing); err != nil {
			return fmt.Errorf("storing listing %d: %w", i+1, err)
		}
	}

	fmt.Printf("Seeded %d listings\n", count)
	return nil
}
