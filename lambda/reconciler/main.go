package main

import (
	"github.com/m-mizutani/athena-partitioner/pkg/handler"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
)

var logger = handler.Logger

func main() {
	handler.StartLambda(Handler)
}

// Handler is exported for testing. Error makes SQS redeliver the messages.
// Required environment variables are AWS_REGION (or SERVICE_REGION) and PARTITION_TABLE_NAME.
func Handler(args handler.Arguments) (interface{}, error) {
	records, err := args.DecapSQSEvent()
	if err != nil {
		return nil, err
	}

	r, err := args.Reconciler()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		var q models.ReconcileQueue
		if err := record.Bind(&q); err != nil {
			return nil, err
		}

		logger.WithField("queue", q).Info("Run reconciler")

		if _, err := r.Reconcile(q); err != nil {
			return nil, errors.Wrapf(err, "Fail to reconcile partition %s", q.PartitionKey)
		}
	}

	return nil, nil
}
