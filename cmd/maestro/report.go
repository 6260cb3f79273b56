package main

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/calder-labs/maestro/internal/config"
	"github.com/calder-labs/maestro/internal/ledger"
	"github.com/calder-labs/maestro/pkg/models"
)

var reportListen string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show backend performance statistics",
	Long: `Display accumulated backend performance statistics from the
history database: attempts, success rates, mean latency, mean quality,
and cost per backend, plus recommended backends per task type.

With --listen, also serves the statistics as Prometheus metrics until
interrupted.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportListen, "listen", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	reportCmd.Flags().StringVar(&engineCatalog, "catalog", "", "Path to a backend catalog YAML file (default: built-in catalog)")
	reportCmd.Flags().BoolVar(&engineNoHistory, "no-history", false, "Skip loading performance history")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	led := ledger.New(nil)

	if cfg.History.Enabled && !engineNoHistory {
		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath = ledger.DefaultDBPath()
		}
		store, err := ledger.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()
		if err := store.Replay(led); err != nil {
			return fmt.Errorf("replay history: %w", err)
		}
	}

	printReport(led)

	if reportListen != "" {
		registry := prometheus.NewRegistry()
		if err := registry.Register(ledger.NewCollector(led)); err != nil {
			return fmt.Errorf("register collector: %w", err)
		}
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		fmt.Printf("\nServing metrics on %s/metrics\n", reportListen)
		return http.ListenAndServe(reportListen, nil)
	}
	return nil
}

// printReport renders the full performance report to stdout.
func printReport(led *ledger.Ledger) {
	report := led.Report()

	if report.Overall.Attempts == 0 {
		fmt.Println("No recorded history. Run some tasks first.")
		return
	}

	bold := color.New(color.Bold)
	bold.Println("Backend Performance")
	fmt.Println()

	for _, id := range report.BackendIDs() {
		br := report.Backends[id]
		fmt.Printf("  %s\n", color.CyanString(id))
		fmt.Printf("    attempts=%d success=%.0f%% latency=%s quality=%.2f",
			br.Attempts, br.SuccessRate*100,
			br.MeanLatency.Round(time.Millisecond), br.MeanQuality)
		if br.Cost > 0 {
			fmt.Printf(" cost=$%.4f", br.Cost)
		}
		fmt.Println()

		types := make([]models.TaskType, 0, len(br.TaskTypes))
		for t := range br.TaskTypes {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			tr := br.TaskTypes[t]
			fmt.Printf("      %-14s attempts=%d success=%.0f%% latency=%s quality=%.2f\n",
				t, tr.Attempts, tr.SuccessRate*100,
				tr.MeanLatency.Round(time.Millisecond), tr.MeanQuality)
		}
	}

	fmt.Println()
	bold.Println("Recommendations")
	fmt.Println()
	for _, t := range models.AllTaskTypes {
		recs := led.Recommend(t)
		if len(recs) == 0 {
			continue
		}
		fmt.Printf("  %-14s %v\n", t, recs)
	}

	fmt.Println()
	fmt.Printf("Overall: attempts=%d success=%.0f%% latency=%s quality=%.2f cost=$%.4f\n",
		report.Overall.Attempts, report.Overall.SuccessRate*100,
		report.Overall.MeanLatency.Round(time.Millisecond),
		report.Overall.MeanQuality, report.Overall.Cost)
}
