package main

import (
	"github.com/k0kubun/pp"
	cli "github.com/urfave/cli/v2"
)

func runCommand(args *arguments) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Register partitions of today in the same way as the lambda function",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "event",
				Usage:       eventFlagUsage(),
				Required:    true,
				Destination: &args.EventFile,
			},
		},
		Action: func(c *cli.Context) error {
			event, err := loadEvent(args.EventFile)
			if err != nil {
				return err
			}

			p, err := args.Partitioner()
			if err != nil {
				return err
			}

			summary, err := p.Run(*event, args.CurrentTime())
			if err != nil {
				return err
			}

			pp.Println(summary)
			return nil
		},
	}
}
