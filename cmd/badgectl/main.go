package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/config"
	"github.com/spec-kit/mes-service/internal/kiosk"
	"github.com/spec-kit/mes-service/internal/observability"
	"github.com/spec-kit/mes-service/internal/persistence"
	"github.com/spec-kit/mes-service/internal/repository"
	"github.com/spec-kit/mes-service/internal/seed"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "badgectl",
	Short: "Badge scan terminal and operator tooling",
	Long: `badgectl drives the badge scan service from the shop floor.
- kiosk: read badge UIDs from a reader in keyboard mode and relay them to the server.
- status: show or switch badge login.
- work-orders: list work orders visible to an operator.
- seed: load the demo employees and work orders into Postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("BADGECTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("server", "", "service base URL (defaults to KIOSK_SERVER_URL)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "relay timeout (defaults to KIOSK_RELAY_TIMEOUT_SECONDS)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("employee", "", "employee code for authenticated commands")
	rootCmd.PersistentFlags().String("password", "", "employee password for authenticated commands")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("employee", rootCmd.PersistentFlags().Lookup("employee"))
	_ = viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
}

func registerCommands() {
	rootCmd.AddCommand(kioskCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(workOrdersCmd())
	rootCmd.AddCommand(seedCmd())
}

func kioskCmd() *cobra.Command {
	var minLength int
	var armTimeout, pollInterval time.Duration
	cmd := &cobra.Command{
		Use:   "kiosk",
		Short: "Run the scan terminal on stdin",
		Long: `Each line on stdin is one badge scan.
A line "arm <work-order> <action>" attaches a work order action to the next scan,
for example "arm WO-2024-0003 start".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logCfg := cfg.Logger
			logCfg.Format = "console"
			logger, err := observability.NewLogger(logCfg, "kiosk")
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			agentCfg := kiosk.AgentConfig{
				MinScanLength:      cfg.Badge.MinLength,
				ArmTimeout:         cfg.Kiosk.ArmTimeout(),
				RelayTimeout:       relayTimeout(),
				StatusPollInterval: cfg.Kiosk.StatusPollInterval(),
			}
			if cmd.Flags().Changed("min-length") {
				agentCfg.MinScanLength = minLength
			}
			if cmd.Flags().Changed("arm-timeout") {
				agentCfg.ArmTimeout = armTimeout
			}
			if cmd.Flags().Changed("status-poll") {
				agentCfg.StatusPollInterval = pollInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newClient()
			client.UserAgent = "badgectl-kiosk"
			agent := kiosk.NewAgent(agentCfg, client, kiosk.NewTerminal(os.Stdout), logger)

			runErr := make(chan error, 1)
			go func() { runErr <- agent.Run(ctx) }()

			logger.Info("kiosk ready", zap.String("server", client.BaseURL), zap.Int("min_length", agentCfg.MinScanLength))
			if err := kiosk.ReadInput(ctx, os.Stdin, agent); err != nil && !errors.Is(err, context.Canceled) {
				stop()
				<-runErr
				return err
			}
			// Input closed; keep rendering pending results until interrupted.
			if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&minLength, "min-length", kiosk.DefaultMinScanLength, "minimum accepted UID length")
	cmd.Flags().DurationVar(&armTimeout, "arm-timeout", 30*time.Second, "how long an armed action waits for a scan")
	cmd.Flags().DurationVar(&pollInterval, "status-poll", 30*time.Second, "badge login status poll interval")
	return cmd
}

func statusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether badge login is enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled := newClient().Status(cmd.Context())
			if viper.GetBool("json") {
				return printJSON(map[string]bool{"enabled": enabled})
			}
			fmt.Printf("badge login enabled: %t\n", enabled)
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <on|off>",
		Short:     "Enable or disable badge login (manager or admin)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[0]) {
			case "on", "true", "enable":
				enabled = true
			case "off", "false", "disable":
				enabled = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			client, err := loggedInClient(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.SetStatus(cmd.Context(), enabled); err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(map[string]bool{"enabled": enabled})
			}
			fmt.Printf("badge login enabled: %t\n", enabled)
			return nil
		},
	})
	return cmd
}

func workOrdersCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:     "work-orders",
		Aliases: []string{"wo"},
		Short:   "List work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := loggedInClient(cmd.Context())
			if err != nil {
				return err
			}
			items, err := client.ListWorkOrders(cmd.Context(), status)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(items)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Number", "Product", "Line", "Status", "Progress", "Priority"})
			for _, wo := range items {
				line := ""
				if wo.ProductionLineID != nil {
					line = *wo.ProductionLineID
				}
				progress := fmt.Sprintf("%.0f/%.0f (%.0f%%)", wo.ProducedQuantity, wo.PlannedQuantity, wo.CompletionRate)
				tw.AppendRow(table.Row{wo.Number, wo.ProductLabel, line, strings.ReplaceAll(wo.Status, "_", " "), progress, wo.Priority})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "comma separated statuses, e.g. ready,paused")
	return cmd
}

func seedCmd() *cobra.Command {
	var password string
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo employees and work orders into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Postgres.DSN == "" {
				return errors.New("POSTGRES_DSN is required for seed")
			}
			logger, err := observability.NewLogger(cfg.Logger, "seed")
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx := cmd.Context()
			pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				return err
			}
			if password == "" {
				password = cfg.Badge.DemoPassword
			}
			result, err := seed.Apply(ctx, seed.Sample(time.Now().UTC()),
				repository.NewEmployeeRepository(pg.PoolHandle()),
				repository.NewWorkOrderRepository(pg.PoolHandle()),
				password, cfg.Auth.BcryptCost, logger)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(result)
			}
			fmt.Printf("seeded %d employees and %d work orders\n", result.Employees, result.WorkOrders)
			return nil
		},
	}
}

func newClient() *kiosk.Client {
	server := viper.GetString("server")
	if server == "" {
		server = cfg.Kiosk.ServerURL
	}
	return kiosk.NewClient(server, relayTimeout())
}

func loggedInClient(ctx context.Context) (*kiosk.Client, error) {
	code := viper.GetString("employee")
	if code == "" {
		return nil, errors.New("--employee is required")
	}
	client := newClient()
	if err := client.Login(ctx, code, viper.GetString("password")); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return client, nil
}

func relayTimeout() time.Duration {
	if d := viper.GetDuration("timeout"); d > 0 {
		return d
	}
	return cfg.Kiosk.RelayTimeout()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
