package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go-csv-aggregator/internal/api"
	"go-csv-aggregator/internal/api/handler"
	"go-csv-aggregator/internal/config"
	"go-csv-aggregator/internal/sample"
	"go-csv-aggregator/internal/session"
	"go-csv-aggregator/internal/store"
	"go-csv-aggregator/pkg/logger"
	"go-csv-aggregator/pkg/router"
)

var (
	cfgFile  string
	flagPort string
)

var rootCmd = &cobra.Command{
	Use:   "aggregator",
	Short: "Serve the CSV aggregator web app",
	Long:  `Upload a CSV file in the browser, group it by categorical columns, aggregate numeric columns with mean, min or max and download the result.`,
	RunE:  run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or write aggregator configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the effective configuration to a YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "aggregator.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		color.Green("✓ Wrote %s", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./aggregator.yaml)")
	rootCmd.Flags().StringVar(&flagPort, "port", "", "HTTP port (overrides config)")

	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") && flagPort != "" {
		cfg.Port = flagPort
	}

	log := logger.NewZapLogger(cfg.LogFile, cfg.IsProduction())
	defer log.Sync()

	// Init DB
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	penguins, err := sample.Penguins()
	if err != nil {
		return err
	}

	manager := session.NewManager(penguins, cfg.SessionTTL, cfg.SessionCleanup, st, log)
	dispatcher := session.NewDispatcher(log, st)
	h := handler.New(manager, dispatcher, st, log, cfg.MaxUploadBytes, cfg.PageSize)

	// Create router
	r := router.New(log)

	// Register API routes
	api.RegisterRoutes(r, h)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	color.Cyan("🚀 CSV aggregator listening on http://localhost%s (swagger at /swagger/index.html)", cfg.Addr())
	log.Info("main", "Starting aggregator", map[string]interface{}{
		"addr":        cfg.Addr(),
		"environment": cfg.Environment,
		"db_path":     cfg.DBPath,
		"sample_rows": penguins.Len(),
	})
	return r.Start(ctx, cfg.Addr())
}
