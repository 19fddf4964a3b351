package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
)

// EnvVars has all environment variables that should be given to Lambda function
type EnvVars struct {
	// From arguments
	AthenaDBName        string `env:"ATHENA_DB_NAME" json:"athena_db_name"`
	OutputBucket        string `env:"OUTPUT_BUCKET" json:"output_bucket"`
	ServiceRegion       string `env:"SERVICE_REGION" json:"service_region"`
	AsyncRegistration   string `env:"ASYNC_REGISTRATION" json:"async_registration"`
	LookupFailurePolicy string `env:"LOOKUP_FAILURE_POLICY" json:"lookup_failure_policy"`
	RetentionDays       int    `env:"PARTITION_RETENTION_DAYS" json:"retention_days"`
	PartitionIntervalMS int    `env:"PARTITION_INTERVAL_MS" json:"partition_interval_ms"`
	AccountIntervalMS   int    `env:"ACCOUNT_INTERVAL_MS" json:"account_interval_ms"`
	SentryDSN           string `env:"SENTRY_DSN" json:"-"`
	SentryEnv           string `env:"SENTRY_ENVIRONMENT" json:"sentry_env"`
	LogLevel            string `env:"LOG_LEVEL" json:"log_level"`

	// From resource
	PartitionTableName string `env:"PARTITION_TABLE_NAME" json:"partition_table_name"`
	ReconcileQueueURL  string `env:"RECONCILE_QUEUE_URL" json:"reconcile_queue_url"`

	// From AWS Lambda
	AwsRegion string `env:"AWS_REGION" json:"aws_region"`
}

// BindEnvVars loads environments variables and set them to EnvVars
func (x *EnvVars) BindEnvVars() error {
	if _, err := env.UnmarshalFromEnviron(x); err != nil {
		Logger.WithError(err).Error("Failed UnmarshalFromEviron")
		return err
	}

	return nil
}

// Region returns SERVICE_REGION if set, AWS_REGION otherwise
func (x *EnvVars) Region() string {
	if x.ServiceRegion != "" {
		return x.ServiceRegion
	}
	return x.AwsRegion
}

// OutputLocation returns S3 path of Athena query result. OUTPUT_BUCKET can be
// bucket name, "bucket/prefix" or full "s3://" path.
func (x *EnvVars) OutputLocation() string {
	if x.OutputBucket == "" {
		return ""
	}

	location := x.OutputBucket
	if !strings.HasPrefix(location, "s3://") {
		location = "s3://" + location
	}
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}
	return location
}

// validateStore checks variables required by both of partitioner and reconciler
func (x *EnvVars) validateStore() error {
	if x.Region() == "" {
		return fmt.Errorf("AWS_REGION or SERVICE_REGION is required")
	}
	if x.PartitionTableName == "" {
		return fmt.Errorf("PARTITION_TABLE_NAME is required")
	}
	return nil
}

// Async returns registration mode. Unset ASYNC_REGISTRATION means async mode if
// RECONCILE_QUEUE_URL is set, because sync mode waits each query in the invocation.
func (x *EnvVars) Async() (bool, error) {
	if x.AsyncRegistration == "" {
		return x.ReconcileQueueURL != "", nil
	}

	async, err := strconv.ParseBool(x.AsyncRegistration)
	if err != nil {
		return false, fmt.Errorf("Invalid ASYNC_REGISTRATION: '%s'", x.AsyncRegistration)
	}
	return async, nil
}

// PartitionerConfig converts environment variables to partitioner.Config
func (x *EnvVars) PartitionerConfig() (partitioner.Config, error) {
	policy, err := partitioner.ParseLookupFailurePolicy(x.LookupFailurePolicy)
	if err != nil {
		return partitioner.Config{}, err
	}

	if err := x.validateStore(); err != nil {
		return partitioner.Config{}, err
	}

	async, err := x.Async()
	if err != nil {
		return partitioner.Config{}, err
	}

	return partitioner.Config{
		DatabaseName:        x.AthenaDBName,
		OutputLocation:      x.OutputLocation(),
		ReconcileQueueURL:   x.ReconcileQueueURL,
		Async:               async,
		LookupFailurePolicy: policy,
		PartitionInterval:   time.Duration(x.PartitionIntervalMS) * time.Millisecond,
		AccountInterval:     time.Duration(x.AccountIntervalMS) * time.Millisecond,
	}, nil
}
