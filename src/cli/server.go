package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"tickq/src/metrics"
	"tickq/src/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var (
		host        string
		port        int
		metricsAddr string
		fairnessCSV string
	)

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run jobs sent by clients over QUIC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if cmd.Flags().Changed("fairness-csv") {
				cfg.FairnessCSV = fairnessCSV
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			collector := metrics.NewCollector(reg)

			fairness := metrics.NewFairness()
			if cfg.FairnessCSV != "" {
				var err error
				fairness, err = metrics.StartFairnessWriter(cfg.FairnessCSV, cfg.FairnessInterval)
				if err != nil {
					return err
				}
				log.Info("writing fairness samples to %s every %s", cfg.FairnessCSV, cfg.FairnessInterval)
			}
			defer func() {
				if err := fairness.Stop(); err != nil {
					log.Error("%v", err)
				}
			}()

			if cfg.MetricsAddr != "" {
				go serveMetrics(ctx, cancel, cfg.MetricsAddr, reg)
			}

			s := server.NewServer(cfg.Host, cfg.Port, collector, fairness, log)
			return s.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "Address to listen on (or TICKQ_HOST env)")
	cmd.Flags().IntVar(&port, "port", 8000, "UDP port to listen on (or TICKQ_PORT env)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9100", "Prometheus endpoint address, empty disables it (or TICKQ_METRICS_ADDR env)")
	cmd.Flags().StringVar(&fairnessCSV, "fairness-csv", "", "CSV file receiving fairness samples (or TICKQ_FAIRNESS_CSV env)")
	return cmd
}

func serveMetrics(ctx context.Context, cancel context.CancelFunc, addr string, reg *prometheus.Registry) {
	log.Info("metrics on %s/metrics", addr)
	if err := metrics.Serve(ctx, addr, reg, nil); err != nil {
		log.Error("%v", err)
		cancel()
	}
}
