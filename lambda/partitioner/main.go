package main

import (
	"github.com/m-mizutani/athena-partitioner/pkg/handler"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = handler.Logger

func main() {
	handler.StartLambda(Handler)
}

// Handler is exported for testing
func Handler(args handler.Arguments) (interface{}, error) {
	var event models.InvocationEvent
	if err := args.BindEvent(&event); err != nil {
		return nil, err
	}

	p, err := args.Partitioner()
	if err != nil {
		return nil, err
	}

	logger.WithField("event", event).Info("Run partitioner")

	summary, err := p.Run(event, args.CurrentTime())
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to create partitions of %s", event.GlueTableName)
	}

	logger.WithFields(logrus.Fields{
		"table": event.GlueTableName,
		"count": summary.Count,
	}).Info("Done")

	return summary, nil
}
