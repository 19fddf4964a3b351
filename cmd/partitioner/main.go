package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/athena-partitioner/pkg/handler"
	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
)

var logger = handler.Logger

type arguments struct {
	handler.Arguments

	EnvFile   string
	EventFile string
}

func main() {
	var args arguments

	app := &cli.App{
		Name:  "partitioner",
		Usage: "Register today's Athena partitions from a local shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "env-file",
				Aliases:     []string{"e"},
				Usage:       "dotenv file with same variables as the lambda function",
				Value:       ".env",
				Destination: &args.EnvFile,
			},
			&cli.StringFlag{
				Name:    "region",
				Aliases: []string{"r"},
				Usage:   "AWS region of S3, Athena and DynamoDB",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "TRACE, DEBUG, INFO, WARN or ERROR",
			},
		},
		Before: func(c *cli.Context) error {
			return setup(c, &args)
		},
		Commands: []*cli.Command{
			planCommand(&args),
			runCommand(&args),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}

// setup loads dotenv file before binding environment variables. Flags override both.
func setup(c *cli.Context, args *arguments) error {
	if err := godotenv.Load(args.EnvFile); err != nil {
		if !os.IsNotExist(errors.Cause(err)) || c.IsSet("env-file") {
			return errors.Wrapf(err, "Fail to load env file: %s", args.EnvFile)
		}
	}

	if err := args.BindEnvVars(); err != nil {
		return err
	}

	if c.IsSet("region") {
		args.ServiceRegion = c.String("region")
	}
	if c.IsSet("log-level") {
		args.LogLevel = c.String("log-level")
	}
	handler.SetLogLevel(args.LogLevel)

	return nil
}
