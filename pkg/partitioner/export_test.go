package partitioner_test

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/google/uuid"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/m-mizutani/athena-partitioner/internal/mock"
	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/internal/util"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	bucket string
	event  models.InvocationEvent
	s3     *mock.S3Client
	athena *mock.AthenaClient
	sqs    *mock.SQSClient
	repo   repository.PartitionRepository
	mock   *mock.PartitionRepository
	sleeps []time.Duration
}

func newTestEnv() *testEnv {
	bucket := uuid.New().String()
	s3Client := mock.NewS3Client("eu-west-1").(*mock.S3Client)
	s3Client.PutKeys(bucket,
		"AWSLogs/111/CloudTrail/eu-west-1/2024/03/05/a.json.gz",
		"AWSLogs/111/CloudTrail/us-east-1/2024/03/05/b.json.gz",
		"AWSLogs/222/CloudTrail/eu-west-1/2024/03/05/c.json.gz",
	)

	repo := mock.NewPartitionRepository()
	return &testEnv{
		bucket: bucket,
		event: models.InvocationEvent{
			BucketName:       bucket,
			BucketPrefix:     aws.String("AWSLogs/"),
			BucketLogsPrefix: "{account_id}/CloudTrail/",
			GlueTableName:    "cloudtrail_logs",
			LogType:          "cloudtrail",
		},
		s3:     s3Client,
		athena: mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient),
		sqs:    mock.NewSQSClient("eu-west-1").(*mock.SQSClient),
		repo:   repo,
		mock:   repo,
	}
}

func (x *testEnv) partitioner(t *testing.T, cfg partitioner.Config) *partitioner.Partitioner {
	if cfg.OutputLocation == "" {
		cfg.OutputLocation = "s3://athena-results/"
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "security_logs"
	}

	noWait := func(limit int) util.RetryTimer {
		return util.NewExpRetryTimerWithSleep(limit, func(time.Duration) {})
	}

	svc := partitioner.Services{
		S3: service.NewS3Service(func(string) adaptor.S3Client { return x.s3 }, "eu-west-1"),
		Athena: service.NewAthenaService(func(string) adaptor.AthenaClient { return x.athena },
			noWait, "eu-west-1"),
		Partitions: service.NewPartitionService(x.repo, 0),
		SQS:        service.NewSQSService(func(string) adaptor.SQSClient { return x.sqs }),
	}

	p, err := partitioner.New(cfg, svc)
	require.NoError(t, err)
	p.Sleep = func(d time.Duration) { x.sleeps = append(x.sleeps, d) }
	p.Now = func() time.Time { return testDate }
	return p
}

func (x *testEnv) reconciler() *partitioner.Reconciler {
	return partitioner.NewReconciler(
		service.NewAthenaService(func(string) adaptor.AthenaClient { return x.athena }, nil, "eu-west-1"),
		service.NewPartitionService(x.repo, 0),
	)
}

// racingRepository always misses on lookup to emulate another run recording the key after lookup.
type racingRepository struct {
	*mock.PartitionRepository
}

func (x *racingRepository) GetPartition(partitionKey string) (*models.PartitionRecord, error) {
	return nil, repository.ErrPartitionNotFound
}
