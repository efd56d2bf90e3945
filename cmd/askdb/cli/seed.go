package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/config"
)

func newSeedCmd() *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create and seed the sales database",
		Long: `Create the sales database schema and populate it with demo data: a roster
of sales people and three months of generated sales. Seeding only happens when
the database is empty; an existing database is left untouched. No API key is
required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(dbURL)
		},
	}

	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (default: sqlite:///./sales.db)")

	return cmd
}

func runSeed(dbURL string) error {
	ctx := context.Background()
	cfg := config.Load()
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}

	st, inserted, err := bootstrapStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	people, sales, err := st.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}

	if inserted > 0 {
		fmt.Printf("Seeded %s with %d sales across %d sales people.\n", st.Path(), inserted, people)
	} else {
		fmt.Printf("%s is already populated (%d sales people, %d sales); nothing to do.\n",
			st.Path(), people, sales)
	}
	return nil
}
