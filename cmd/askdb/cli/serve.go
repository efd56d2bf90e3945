package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/server"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/stats"
)

const banner = `
    _     ____   _  __ ____   ____
   / \   / ___| | |/ /|  _ \ | __ )
  / _ \  \___ \ | ' / | | | ||  _ \
 / ___ \  ___) || . \ | |_| || |_) |
/_/   \_\|____/ |_|\_\|____/ |____/
`

func newServeCmd() *cobra.Command {
	var (
		port  int
		host  string
		dev   bool
		dbURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the AskDB API server",
		Long:  "Start the HTTP server that answers natural-language questions about the sales database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(dev, dbURL)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8000, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, CORS *)")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "Database URL (default: sqlite:///./sales.db)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(dev bool, dbURL string) error {
	fmt.Print(banner)
	fmt.Println()

	logger := newLogger(dev)
	ctx := context.Background()

	// 1. Resolve and validate configuration. A missing API key is fatal here:
	//    the server must not come up half-configured.
	cfg := config.Load()
	if dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// 2. Open the sales database, ensure the schema, seed when empty.
	st, inserted, err := bootstrapStore(ctx, cfg)
	if err != nil {
		return err
	}
	if inserted > 0 {
		logger.Info("seeded sales database", "path", st.Path(), "sales_rows", inserted)
	} else {
		logger.Info("sales database already populated", "path", st.Path())
	}

	// 3. Build the agent and bind it to the query service.
	querySvc := service.NewQueryService()
	ag, err := agent.New(cfg.LLM, st)
	if err != nil {
		st.Close()
		return fmt.Errorf("init agent: %w", err)
	}
	querySvc.Bind(ag)
	logger.Info("agent ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	// 4. Start the stats collector with its hourly heartbeat.
	collector := stats.New(logger)
	collector.Start(st.Counts)
	defer collector.Shutdown()

	// 5. Build and start the HTTP server. The server owns the store from here
	//    and closes it after the graceful shutdown.
	srvCfg := server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: 10 * time.Second,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimit:       cfg.Server.RateLimit,
	}
	if dev {
		srvCfg.CORSOrigins = []string{"*"}
	}

	srv := server.New(srvCfg, cfg, st, querySvc, collector, appVersion, logger)

	people, sales, err := st.Counts(ctx)
	if err != nil {
		logger.Warn("failed to count seeded rows", "error", err)
	}

	fmt.Printf("→ AskDB %s\n", versionString())
	fmt.Printf("→ Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Query API:  http://%s:%d/api/v1/query\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ OpenAPI:    http://%s:%d/openapi.json\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Health:     http://%s:%d/healthz\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("→ Database:   %s (%d people, %d sales)\n", st.Path(), people, sales)
	fmt.Println()

	return srv.ListenAndServe()
}
