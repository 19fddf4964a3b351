package partitioner

import (
	"fmt"

	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrQueryRunning means the registration query has not finished yet. The message should be retried.
var ErrQueryRunning = fmt.Errorf("Partitioning query is still running")

// Reconciler settles pending partitions by state of their queries
type Reconciler struct {
	athena     *service.AthenaService
	partitions *service.PartitionService
}

// NewReconciler is constructor of Reconciler
func NewReconciler(athena *service.AthenaService, partitions *service.PartitionService) *Reconciler {
	return &Reconciler{
		athena:     athena,
		partitions: partitions,
	}
}

// Reconcile settles a pending partition by result of its query. A message of an
// execution that no longer owns the record is ignored.
func (x *Reconciler) Reconcile(q models.ReconcileQueue) (service.QueryState, error) {
	if _, err := models.ParsePartitionKey(q.PartitionKey); err != nil {
		return "", err
	}
	if q.QueryExecutionID == "" {
		return "", fmt.Errorf("query_execution_id is required: %s", q.PartitionKey)
	}

	state, err := x.settle(q.PartitionKey, q.QueryExecutionID)
	if err != nil {
		return state, err
	}

	if state == service.QueryRunning {
		return state, errors.Wrapf(ErrQueryRunning, "execution ID: %s", q.QueryExecutionID)
	}

	return state, nil
}

func (x *Reconciler) settle(partitionKey, execID string) (service.QueryState, error) {
	log := logger.WithFields(logrus.Fields{
		"partition":    partitionKey,
		"execution_id": execID,
	})

	state, err := x.athena.GetQueryState(execID)
	if err != nil {
		return "", err
	}

	switch state {
	case service.QuerySucceeded:
		if err := x.partitions.Confirm(partitionKey, execID); err != nil {
			if service.IsSuperseded(err) {
				log.Warn("Partition record is superseded, not confirmed")
				return state, nil
			}
			return state, err
		}
		log.Info("Confirmed partition")

	case service.QueryFailed:
		if err := x.partitions.Release(partitionKey, execID); err != nil {
			if service.IsSuperseded(err) {
				log.Warn("Partition record is superseded, not released")
				return state, nil
			}
			return state, err
		}
		log.Warn("Released partition of failed query")
	}

	return state, nil
}
