package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcschoo/Sparrow"
	audithook "github.com/mcschoo/Sparrow/audit_hook"
	"github.com/mcschoo/Sparrow/edge"
	"github.com/mcschoo/Sparrow/forwarder"
)

var edgeFlags struct {
	addr    string
	metrics bool
	audit   bool
}

func init() {
	edgeCmd.Flags().StringVar(&edgeFlags.addr, "addr", "", "listen address (overrides "+sparrow.EnvEdgeListenAddr+")")
	edgeCmd.Flags().BoolVar(&edgeFlags.metrics, "metrics", true, "serve Prometheus metrics on /metrics")
	edgeCmd.Flags().BoolVar(&edgeFlags.audit, "audit", false, "write an audit record for every dispatch")
	rootCmd.AddCommand(edgeCmd)
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Run the public edge gateway",
	Long: `Serves GET /healthz and POST /dispatch. Each dispatch is relayed to
COORDINATOR_BASE_URL and the coordinator's JSON is returned unchanged; any relay
failure answers 502.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := sparrow.LoadEdgeConfig(lookupEnv)
		if err != nil {
			return err
		}
		if edgeFlags.addr != "" {
			cfg.ListenAddr = edgeFlags.addr
		}

		logger := sparrow.NewLogger(cfg.Log, os.Stderr, cfg.ServiceName)

		metrics, cleanup, err := setupMetrics(edgeFlags.metrics, cfg.ServiceName, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		var opts []edge.Option
		if metrics != nil {
			opts = append(opts, edge.WithMetricsHandler(metrics))
		}
		if edgeFlags.audit {
			opts = append(opts, edge.WithForwarderOptions(forwarder.WithExtensions(
				audithook.New(audithook.SlogRecorder(logger), audithook.WithServiceName(cfg.ServiceName)),
			)))
		}
		gw, err := edge.NewFromConfig(cfg, logger, opts...)
		if err != nil {
			return err
		}
		defer gw.Shutdown(context.WithoutCancel(cmd.Context()))

		logger.Info("edge gateway starting",
			"coordinator", cfg.CoordinatorBaseURL,
			"allowed_origins", cfg.AllowedOrigins,
			"dispatch_timeout", cfg.DispatchTimeout,
		)

		return serve(cmd.Context(), cfg.ListenAddr, cfg.ShutdownTimeout, gw.Handler(), logger)
	},
}
