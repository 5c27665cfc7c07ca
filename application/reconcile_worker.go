package application

import (
	"context"
	"fmt"
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Reconciler checks every account's ledger against its stored balance
type Reconciler interface {
	ReconcileAll(ctx context.Context) ([]entities.ReconciliationReport, int, error)
}

// ReconcileWorker runs ledger reconciliation on a cron schedule
type ReconcileWorker struct {
	cron       *cron.Cron
	reconciler Reconciler
	schedule   string
}

// NewReconcileWorker creates a worker for the given cron spec (e.g. "@every 1h")
func NewReconcileWorker(reconciler Reconciler, schedule string) *ReconcileWorker {
	return &ReconcileWorker{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		reconciler: reconciler,
		schedule:   schedule,
	}
}

// Start schedules the job. Runs stop when ctx ends or Stop is called.
func (w *ReconcileWorker) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.RunOnce(ctx); err != nil {
			log.WithError(err).Error("Scheduled reconciliation failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	log.WithField("schedule", w.schedule).Info("Reconcile worker started")
	return nil
}

// Stop waits for a running job to finish
func (w *ReconcileWorker) Stop() {
	<-w.cron.Stop().Done()
	log.Info("Reconcile worker stopped")
}

// RunOnce reconciles every account and logs each mismatch
func (w *ReconcileWorker) RunOnce(ctx context.Context) ([]entities.ReconciliationReport, error) {
	start := time.Now()
	mismatches, checked, err := w.reconciler.ReconcileAll(ctx)
	if err != nil {
		return mismatches, err
	}

	for _, report := range mismatches {
		log.WithFields(log.Fields{
			"accountID":         report.AccountID,
			"storedBalance":     report.StoredBalance,
			"calculatedBalance": report.CalculatedBalance,
			"brokenEntries":     len(report.BrokenEntries),
		}).Warn("Ledger drift detected")
	}

	log.WithFields(log.Fields{
		"checked":    checked,
		"mismatches": len(mismatches),
		"duration":   time.Since(start),
	}).Info("Reconciliation run complete")
	return mismatches, nil
}
