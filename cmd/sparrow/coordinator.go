package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcschoo/Sparrow"
	audithook "github.com/mcschoo/Sparrow/audit_hook"
	"github.com/mcschoo/Sparrow/coordinator"
)

var coordinatorFlags struct {
	addr    string
	metrics bool
	audit   bool
}

func init() {
	coordinatorCmd.Flags().StringVar(&coordinatorFlags.addr, "addr", "", "listen address (overrides "+sparrow.EnvCoordinatorAddr+")")
	coordinatorCmd.Flags().BoolVar(&coordinatorFlags.metrics, "metrics", true, "serve Prometheus metrics on /metrics")
	coordinatorCmd.Flags().BoolVar(&coordinatorFlags.audit, "audit", false, "write an audit record for every dispatch")
	rootCmd.AddCommand(coordinatorCmd)
}

var coordinatorCmd = &cobra.Command{
	Use:   "coordinator",
	Short: "Run the dispatch coordinator",
	Long:  `Serves GET /healthz and POST /dispatch, echoing every JSON object it receives.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := sparrow.LoadCoordinatorConfig(lookupEnv)
		if err != nil {
			return err
		}
		if coordinatorFlags.addr != "" {
			cfg.ListenAddr = coordinatorFlags.addr
		}

		logger := sparrow.NewLogger(cfg.Log, os.Stderr, cfg.ServiceName)

		metrics, cleanup, err := setupMetrics(coordinatorFlags.metrics, cfg.ServiceName, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		opts := []coordinator.Option{coordinator.WithLogger(logger)}
		if metrics != nil {
			opts = append(opts, coordinator.WithMetricsHandler(metrics))
		}
		if coordinatorFlags.audit {
			opts = append(opts, coordinator.WithExtensions(
				audithook.New(audithook.SlogRecorder(logger), audithook.WithServiceName(cfg.ServiceName)),
			))
		}
		co := coordinator.New(cfg, opts...)
		defer co.Shutdown(context.WithoutCancel(cmd.Context()))

		logger.Info("coordinator starting")

		return serve(cmd.Context(), cfg.ListenAddr, cfg.ShutdownTimeout, co.Handler(), logger)
	},
}
