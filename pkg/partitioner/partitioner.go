package partitioner

import (
	"fmt"
	"time"

	"github.com/m-mizutani/athena-partitioner/internal"
	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// LookupFailurePolicy decides how a failed existence lookup is handled
type LookupFailurePolicy string

const (
	// LookupFailureAbort stops the run with the lookup error
	LookupFailureAbort LookupFailurePolicy = "abort"
	// LookupFailureIgnore treats the partition as absent. Conditional write of the
	// existence record still prevents double registration.
	LookupFailureIgnore LookupFailurePolicy = "ignore"
)

// ParseLookupFailurePolicy converts string to LookupFailurePolicy. Empty string is LookupFailureAbort.
func ParseLookupFailurePolicy(s string) (LookupFailurePolicy, error) {
	switch LookupFailurePolicy(s) {
	case "", LookupFailureAbort:
		return LookupFailureAbort, nil
	case LookupFailureIgnore:
		return LookupFailureIgnore, nil
	}
	return "", fmt.Errorf("Invalid lookup failure policy: '%s' (abort or ignore)", s)
}

const (
	// DefaultPartitionInterval is wait time after a registration query
	DefaultPartitionInterval = 200 * time.Millisecond
	// DefaultAccountInterval is wait time between accounts
	DefaultAccountInterval = time.Second
)

// Config has settings of Partitioner
type Config struct {
	DatabaseName      string
	OutputLocation    string
	ReconcileQueueURL string

	// Async sends ReconcileQueue instead of waiting each query. Sync mode may wait up to
	// about 50 seconds per partition (service.DefaultQueryWaitLimit), so a large
	// account x region matrix should use async mode to stay in Lambda time limit.
	Async bool

	LookupFailurePolicy LookupFailurePolicy
	PartitionInterval   time.Duration
	AccountInterval     time.Duration
}

// Validate checks required settings
func (x *Config) Validate() error {
	if x.OutputLocation == "" {
		return fmt.Errorf("OutputLocation of query result is required")
	}
	if x.Async && x.ReconcileQueueURL == "" {
		return fmt.Errorf("ReconcileQueueURL is required in async registration mode")
	}
	if _, err := ParseLookupFailurePolicy(string(x.LookupFailurePolicy)); err != nil {
		return err
	}
	return nil
}

// Services is set of AWS accessors used by Partitioner. SQS can be nil if not async mode.
type Services struct {
	S3         *service.S3Service
	Athena     *service.AthenaService
	Partitions *service.PartitionService
	SQS        *service.SQSService
}

// Partitioner discovers accounts and regions in S3 and registers partitions of a day.
type Partitioner struct {
	Config
	s3         *service.S3Service
	athena     *service.AthenaService
	partitions *service.PartitionService
	sqs        *service.SQSService
	reconciler *Reconciler

	// Replaced in test
	Sleep func(time.Duration)
	Now   func() time.Time
}

// New is constructor of Partitioner
func New(cfg Config, svc Services) (*Partitioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Async && svc.SQS == nil {
		return nil, fmt.Errorf("SQS service is required in async registration mode")
	}

	if cfg.LookupFailurePolicy == "" {
		cfg.LookupFailurePolicy = LookupFailureAbort
	}
	if cfg.PartitionInterval == 0 {
		cfg.PartitionInterval = DefaultPartitionInterval
	}
	if cfg.AccountInterval == 0 {
		cfg.AccountInterval = DefaultAccountInterval
	}

	return &Partitioner{
		Config:     cfg,
		s3:         svc.S3,
		athena:     svc.Athena,
		partitions: svc.Partitions,
		sqs:        svc.SQS,
		reconciler: NewReconciler(svc.Athena, svc.Partitions),
		Sleep:      time.Sleep,
		Now:        time.Now,
	}, nil
}

// Plan runs discovery and returns partitions of the date. Regions are discovered
// only in the first account and applied to all accounts.
func (x *Partitioner) Plan(event models.InvocationEvent, date time.Time) ([]models.PartitionKey, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	accounts, err := x.ListAccounts(event.BucketName, event.Prefix())
	if err != nil {
		return nil, err
	}

	regions, err := x.ListRegions(event.BucketName, event.RegionPrefixTemplate(), accounts[0])
	if err != nil {
		return nil, err
	}

	return PartitionsToCreate(accounts, regions, event.LogType, date), nil
}

// Run registers all partitions of the date. The date is fixed for the whole run.
// Run stops at the first error and partitions after that are left unprocessed.
func (x *Partitioner) Run(event models.InvocationEvent, date time.Time) (*models.Summary, error) {
	date = models.TruncateDate(date)

	keys, err := x.Plan(event, date)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"date":  date.Format(models.DateFormat),
		"table": event.GlueTableName,
		"count": len(keys),
	}).Info("Planned partitions")

	summary := models.NewSummary(date)
	for i, key := range keys {
		if i > 0 && keys[i-1].AccountID != key.AccountID {
			x.Sleep(x.AccountInterval)
		}

		result, err := x.CreatePartition(key, event)
		if err != nil {
			return nil, errors.Wrapf(err, "Fail to create partition %s (%d/%d)", key, i+1, len(keys))
		}
		summary.Add(key, result)
	}

	logger.WithFields(logrus.Fields{
		"count":   summary.Count,
		"created": summary.CountOf(models.ResultCreated),
		"pending": summary.CountOf(models.ResultPending),
	}).Info("Completed partition registration")

	return summary, nil
}
