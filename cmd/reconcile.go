package cmd

import (
	"fmt"

	"gambler/wager-engine/application"
	"gambler/wager-engine/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Replay every ledger once and report balance drift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			configureLogging(cfg)

			engine, err := Build(cmd.Context(), cfg, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer engine.Close()

			mismatches, err := application.NewReconcileWorker(engine.Services.Reconciliation, cfg.ReconcileSchedule).RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, report := range mismatches {
				fmt.Fprintf(out, "account %d: stored %d calculated %d broken entries %v\n",
					report.AccountID, report.StoredBalance, report.CalculatedBalance, report.BrokenEntries)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d accounts out of balance", len(mismatches))
			}
			fmt.Fprintln(out, "all ledgers consistent")
			return nil
		},
	}
}
