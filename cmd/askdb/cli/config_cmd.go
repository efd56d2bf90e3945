package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askdb/askdb/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage AskDB configuration",
		Long:  "Initialize a default configuration file or display the current effective configuration.",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

// ---------- config init ----------

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default askdb.yaml configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config file")

	return cmd
}

const defaultConfig = `# AskDB Configuration

# SQLite database holding the seeded sales data
database:
  url: sqlite:///./sales.db

# Language model behind the agent
llm:
  provider: openai     # openai or huggingface
  model: gpt-4o-mini
  temperature: 0.0
  api_key: ""          # Set via ASKDB_LLM_API_KEY or OPENAI_API_KEY env var
  base_url: ""         # Optional OpenAI-compatible endpoint

# HTTP server
server:
  host: 0.0.0.0
  port: 8000
  cors_origins:
    - http://localhost:3000
    - http://localhost:5173
  rate_limit: 60       # query requests per IP per minute, 0 disables
`

func runConfigInit(force bool) error {
	path := "askdb.yaml"

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", path)
	fmt.Println("Set your API key, then run 'askdb serve' or 'askdb ask \"...\"'.")
	return nil
}

// ---------- config show ----------

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	return cmd
}

func runConfigShow() error {
	// Ensure config is loaded
	initConfig()

	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		fmt.Printf("Config file: %s\n", configFile)
	} else {
		fmt.Println("Config file: (none found, using defaults)")
	}
	fmt.Println()

	cfg := config.Load()

	fmt.Println("database:")
	fmt.Printf("  url: %s\n", cfg.Database.URL)
	fmt.Println("llm:")
	fmt.Printf("  provider: %s\n", cfg.LLM.Provider)
	fmt.Printf("  model: %s\n", cfg.LLM.Model)
	fmt.Printf("  temperature: %.2f\n", cfg.LLM.Temperature)
	fmt.Printf("  api_key: %s\n", displayKey(cfg.LLM.MaskedKey()))
	if cfg.LLM.BaseURL != "" {
		fmt.Printf("  base_url: %s\n", cfg.LLM.BaseURL)
	}
	fmt.Println("server:")
	fmt.Printf("  host: %s\n", cfg.Server.Host)
	fmt.Printf("  port: %d\n", cfg.Server.Port)
	fmt.Printf("  cors_origins: %v\n", cfg.Server.CORSOrigins)
	fmt.Printf("  rate_limit: %d\n", cfg.Server.RateLimit)

	return nil
}

// displayKey renders a masked key for terminal output.
func displayKey(masked string) string {
	if masked == "" {
		return "(not set)"
	}
	return masked
}
