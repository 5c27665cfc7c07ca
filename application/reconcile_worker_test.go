package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"gambler/wager-engine/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingReconciler struct {
	runs    atomic.Int32
	reports []entities.ReconciliationReport
	err     error
}

func (r *countingReconciler) ReconcileAll(ctx context.Context) ([]entities.ReconciliationReport, int, error) {
	r.runs.Add(1)
	return r.reports, 3, r.err
}

func TestReconcileWorker_RunOnce(t *testing.T) {
	drift := entities.ReconciliationReport{AccountID: 9, StoredBalance: 100, CalculatedBalance: 90}
	reconciler := &countingReconciler{reports: []entities.ReconciliationReport{drift}}
	worker := NewReconcileWorker(reconciler, "@every 1h")

	mismatches, err := worker.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.ReconciliationReport{drift}, mismatches)

	reconciler.err = errors.New("database down")
	_, err = worker.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestReconcileWorker_RunsOnSchedule(t *testing.T) {
	reconciler := &countingReconciler{}
	worker := NewReconcileWorker(reconciler, "@every 1s")

	require.NoError(t, worker.Start(context.Background()))
	defer worker.Stop()

	assert.Eventually(t, func() bool { return reconciler.runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestReconcileWorker_InvalidSchedule(t *testing.T) {
	worker := NewReconcileWorker(&countingReconciler{}, "every so often")
	assert.Error(t, worker.Start(context.Background()))
}
