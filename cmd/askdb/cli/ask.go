package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/service"
)

func newAskCmd() *cobra.Command {
	var showSteps bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the sales database a single question",
		Long: `Ask a one-shot natural-language question about the sales database. The
question is translated to SQL, executed read-only, and answered in plain
language. The database is created and seeded on first use.`,
		Example: `  askdb ask "Who had the highest total sales last month?"
  askdb ask --steps "How many sales were there per product category?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "), showSteps)
		},
	}

	cmd.Flags().BoolVar(&showSteps, "steps", false, "Print the intermediate steps (generated SQL, query results)")

	return cmd
}

func runAsk(question string, showSteps bool) error {
	ctx := context.Background()
	cfg := config.Load()

	// Prompt for a missing API key when running interactively.
	if cfg.LLM.APIKey == "" {
		key, err := promptAPIKey()
		if err != nil {
			return err
		}
		cfg.LLM.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, _, err := bootstrapStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ag, err := agent.New(cfg.LLM, st)
	if err != nil {
		return fmt.Errorf("init agent: %w", err)
	}

	querySvc := service.NewQueryService()
	querySvc.Bind(ag)

	resp, err := querySvc.Execute(ctx, question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			return errors.New("question must not be empty")
		}
		return err
	}

	if showSteps {
		for i, step := range resp.Steps {
			fmt.Printf("[%d] %s\n", i+1, step.Tool)
			fmt.Printf("    input:  %s\n", step.Input)
			fmt.Printf("    output: %s\n", truncate(step.Observation, 400))
		}
		fmt.Println()
	}

	if !resp.Success {
		return errors.New(resp.Error)
	}

	fmt.Println(*resp.Result)
	return nil
}

// truncate shortens s for display, keeping the first n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... (truncated)"
}
