package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcschoo/Sparrow"
	"github.com/mcschoo/Sparrow/backoff"
	"github.com/mcschoo/Sparrow/forwarder"
)

var probeFlags struct {
	attempts int
	interval time.Duration
	timeout  time.Duration
	jitter   bool
}

func init() {
	probeCmd.Flags().IntVar(&probeFlags.attempts, "attempts", 10, "number of health checks before giving up")
	probeCmd.Flags().DurationVar(&probeFlags.interval, "interval", 500*time.Millisecond, "initial delay between attempts")
	probeCmd.Flags().DurationVar(&probeFlags.timeout, "timeout", 2*time.Second, "per-attempt timeout")
	probeCmd.Flags().BoolVar(&probeFlags.jitter, "jitter", false, "randomize delays between attempts")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe URL",
	Short: "Wait until a service answers GET /healthz",
	Long: `Polls URL/healthz with exponential backoff and exits non-zero if the
service never reports healthy. Intended for container health checks and
start ordering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := sparrow.DefaultCoordinatorConfig().Log
		if lvl, ok := lookupEnv(sparrow.EnvLogLevel); ok {
			_ = cfg.Level.UnmarshalText([]byte(lvl))
		}
		logger := sparrow.NewLogger(cfg, os.Stderr, "probe")

		p := forwarder.NewProber(args[0],
			forwarder.WithProbeTimeout(probeFlags.timeout),
			forwarder.WithProbeLogger(logger),
		)
		strategy := backoff.Exponential{
			Initial: probeFlags.interval,
			Max:     backoff.MaxDelay,
			Jitter:  probeFlags.jitter,
		}

		report, err := p.WaitReady(cmd.Context(), strategy, probeFlags.attempts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", report.Service, report.Status)

		return nil
	},
}
