package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askdb/askdb/internal/config"
)

var (
	cfgFile    string
	appVersion string // set in Execute, used by serve and mcp
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askdb",
		Short: "Ask your sales database questions in plain language",
		Long: `AskDB: Ask your sales database questions in plain language.

AskDB seeds a demo SQLite sales database, translates natural-language questions
into SQL with an LLM, runs the generated queries read-only, and phrases the
results as answers. It ships an HTTP API, a one-shot CLI, and an MCP server
for AI agents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./askdb.yaml)")

	cobra.OnInitialize(initConfig)

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))
	cmd.AddCommand(newOpenAPICmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() {
	// A .env file in the working directory is loaded first so its variables
	// are visible to viper's environment lookup. Missing files are fine.
	godotenv.Load()

	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("askdb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.askdb")
	}

	config.BindEnv()
	viper.ReadInConfig() // Ignore error - config file is optional
}
