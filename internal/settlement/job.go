package settlement

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/kardzapp/kardz-backend/internal/orders"
	"github.com/kardzapp/kardz-backend/pkg/enums"
	"github.com/kardzapp/kardz-backend/pkg/logger"
	"github.com/kardzapp/kardz-backend/pkg/metrics"
)

const jobName = "settlement"

// Job scans pending bit orders and completes the ones whose payment arrived.
type Job struct {
	repo    orders.Repository
	decider Decider
	logg    *logger.Logger
	metrics *metrics.JobMetrics
}

// NewJob builds the settlement job.
func NewJob(repo orders.Repository, decider Decider, logg *logger.Logger, m *metrics.JobMetrics) (*Job, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if decider == nil {
		return nil, fmt.Errorf("decider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Job{repo: repo, decider: decider, logg: logg, metrics: m}, nil
}

// Name implements worker.Job.
func (j *Job) Name() string {
	return jobName
}

// Run performs one settlement pass. A failure on one order is recorded and
// the scan moves on; the combined error is returned at the end so the cycle
// is observable as failed without ever aborting mid-scan.
func (j *Job) Run(ctx context.Context) error {
	pending, err := j.repo.ListByStatus(ctx, enums.PaymentMethodBit, enums.OrderStatusPendingPayment)
	if err != nil {
		return fmt.Errorf("list pending orders: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	var errs error
	settled := 0

	for i := range pending {
		order := &pending[i]
		orderCtx := j.logg.WithField(ctx, "order_id", order.ID.String())

		ok, decideErr := j.decider.Settled(orderCtx, order)
		if decideErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("decide order %s: %w", order.ID, decideErr))
			continue
		}
		if !ok {
			continue
		}

		// Guarded on the current status; a concurrent transition loses quietly.
		updated, updateErr := j.repo.UpdateStatus(orderCtx, order.ID,
			enums.OrderStatusPendingPayment, enums.OrderStatusCompleted)
		if updateErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("settle order %s: %w", order.ID, updateErr))
			continue
		}
		if updated {
			settled++
			j.logg.Info(orderCtx, "order settled")
		}
	}

	j.metrics.AddSettled(settled)

	if errs != nil {
		return errs
	}
	return nil
}
