package main

import (
	"github.com/k0kubun/pp"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	cli "github.com/urfave/cli/v2"
)

type plannedPartition struct {
	Key      string
	Location string
	Query    string
}

func planCommand(args *arguments) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show partitions and queries of today without registration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "event",
				Usage:       eventFlagUsage(),
				Required:    true,
				Destination: &args.EventFile,
			},
		},
		Action: func(c *cli.Context) error {
			plans, err := planPartitions(args)
			if err != nil {
				return err
			}

			pp.Println(plans)
			return nil
		},
	}
}

func planPartitions(args *arguments) ([]plannedPartition, error) {
	event, err := loadEvent(args.EventFile)
	if err != nil {
		return nil, err
	}

	p, err := args.Partitioner()
	if err != nil {
		return nil, err
	}

	date := models.TruncateDate(args.CurrentTime())
	keys, err := p.Plan(*event, date)
	if err != nil {
		return nil, err
	}

	var plans []plannedPartition
	for _, key := range keys {
		prefix := event.RegionPrefixTemplate()
		plans = append(plans, plannedPartition{
			Key:      key.String(),
			Location: partitioner.PartitionLocation(key.AccountID, key.Region, event.BucketName, prefix, key.Date),
			Query: partitioner.BuildPartitionQuery(key.AccountID, key.Region, event.GlueTableName,
				event.BucketName, prefix, key.Date),
		})
	}

	logger.WithField("count", len(plans)).Info("Planned partitions")
	return plans, nil
}
