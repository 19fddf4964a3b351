package partitioner

import (
	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CreatePartition registers a partition if it is not registered in existence table.
// The partition is recorded as pending before the query and becomes registered
// after the query succeeded. Any failure after recording releases the record.
// A pending record left by a previous run is settled by its query state, and a
// claim left without query is taken over.
func (x *Partitioner) CreatePartition(key models.PartitionKey, event models.InvocationEvent) (models.RegistrationResult, error) {
	pkey := key.String()
	log := logger.WithField("partition", pkey)
	now := x.Now()

	existence, record, err := x.partitions.Lookup(pkey, now)
	switch existence {
	case service.PartitionRegistered:
		log.Debug("Partition already exists")
		return models.ResultExists, nil

	case service.PartitionLookupFailed:
		if x.LookupFailurePolicy != LookupFailureIgnore {
			return "", errors.Wrapf(err, "Fail to look up partition: %s", pkey)
		}
		log.WithError(err).Warn("Fail to look up partition, treated as absent")

	case service.PartitionPending:
		if record.QueryExecutionID == "" {
			log.Info("Partition is being registered by another run")
			return models.ResultClaimed, nil
		}

		state, err := x.reconciler.settle(pkey, record.QueryExecutionID)
		if err != nil {
			return "", err
		}

		switch state {
		case service.QueryRunning:
			return models.ResultPending, nil
		case service.QuerySucceeded:
			return models.ResultExists, nil
		}
		log.Info("Previous query failed, register again")

	case service.PartitionOrphaned:
		if err := x.partitions.Reclaim(record, now); err != nil {
			if err == repository.ErrPartitionExists {
				log.Info("Orphaned partition has been taken over by another run")
				return models.ResultClaimed, nil
			}
			return "", err
		}
		log.Warn("Took over orphaned partition claim")
		return x.submit(key, event)
	}

	if err := x.partitions.Claim(pkey, now); err != nil {
		if err == repository.ErrPartitionExists {
			log.Info("Partition has been recorded by another run")
			return models.ResultClaimed, nil
		}
		return "", err
	}

	return x.submit(key, event)
}

// submit registers a claimed partition. The claim is released on failure.
func (x *Partitioner) submit(key models.PartitionKey, event models.InvocationEvent) (models.RegistrationResult, error) {
	pkey := key.String()

	result, execID, err := x.register(key, event)
	if err != nil {
		if rerr := x.partitions.Release(pkey, execID); rerr != nil {
			logger.WithError(rerr).WithField("partition", pkey).Error("Fail to release partition record")
		}
		return "", err
	}

	x.Sleep(x.PartitionInterval)
	return result, nil
}

// register returns query execution ID saved in the record, empty if not saved.
func (x *Partitioner) register(key models.PartitionKey, event models.InvocationEvent) (models.RegistrationResult, string, error) {
	pkey := key.String()
	sql := BuildPartitionQuery(key.AccountID, key.Region, event.GlueTableName,
		event.BucketName, event.RegionPrefixTemplate(), key.Date)

	execID, err := x.athena.StartQuery(sql, x.DatabaseName, x.OutputLocation)
	if err != nil {
		return "", "", err
	}

	if err := x.partitions.MarkPending(pkey, execID); err != nil {
		return "", "", err
	}

	log := logger.WithFields(logrus.Fields{
		"partition":    pkey,
		"execution_id": execID,
	})

	if x.Async {
		q := models.ReconcileQueue{PartitionKey: pkey, QueryExecutionID: execID}
		if err := x.sqs.SendSQS(q, x.ReconcileQueueURL); err != nil {
			return "", execID, err
		}

		log.Info("Partition is pending")
		return models.ResultPending, execID, nil
	}

	if err := x.athena.WaitQuery(execID); err != nil {
		return "", execID, err
	}

	if err := x.partitions.Confirm(pkey, execID); err != nil {
		return "", execID, err
	}

	log.Info("Created partition")
	return models.ResultCreated, execID, nil
}
