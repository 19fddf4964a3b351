package handler

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/internal/util"
	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	"github.com/pkg/errors"
)

// Arguments has environment variables, Event record and adaptor
type Arguments struct {
	EnvVars
	Event interface{}

	NewS3         adaptor.S3ClientFactory        `json:"-"`
	NewAthena     adaptor.AthenaClientFactory    `json:"-"`
	NewSQS        adaptor.SQSClientFactory       `json:"-"`
	NewTimer      util.RetryTimerFactory         `json:"-"`
	PartitionRepo repository.PartitionRepository `json:"-"`
	Sleep         func(time.Duration)            `json:"-"`
	Now           func() time.Time               `json:"-"`
}

// EventRecord is decapslated event data (e.g. Body of SQS event)
type EventRecord []byte

// Bind unmarshal event record to object
func (x EventRecord) Bind(ev interface{}) error {
	if err := json.Unmarshal(x, ev); err != nil {
		Logger.WithField("raw", string(x)).Error("json.Unmarshal")
		return errors.Wrap(err, "Failed json.Unmarshal in DecodeEvent")
	}
	return nil
}

// DecapSQSEvent decapslates wrapped body data in SQSEvent
func (x *Arguments) DecapSQSEvent() ([]EventRecord, error) {
	var sqsEvent events.SQSEvent
	if err := x.BindEvent(&sqsEvent); err != nil {
		return nil, err
	}

	var output []EventRecord
	for _, record := range sqsEvent.Records {
		output = append(output, EventRecord(record.Body))
	}

	return output, nil
}

// BindEvent directly decode event data and unmarshal to ev object.
func (x *Arguments) BindEvent(ev interface{}) error {
	raw, err := json.Marshal(x.Event)
	if err != nil {
		Logger.WithField("event", x.Event).Error("json.Marshal")
		return errors.Wrap(err, "Failed to marshal lambda event in BindEvent")
	}

	if err := json.Unmarshal(raw, ev); err != nil {
		Logger.WithField("raw", string(raw)).Error("json.Unmarshal")
		return errors.Wrap(err, "Failed json.Unmarshal in BindEvent")
	}

	return nil
}

// CurrentTime returns time of the invocation
func (x *Arguments) CurrentTime() time.Time {
	if x.Now != nil {
		return x.Now()
	}
	return time.Now().UTC()
}

// PartitionService provides PartitionRepository implementation (DynamoDB)
func (x *Arguments) PartitionService() *service.PartitionService {
	var repo repository.PartitionRepository

	if x.PartitionRepo != nil {
		repo = x.PartitionRepo
	} else {
		repo = repository.NewPartitionDynamoDB(x.Region(), x.PartitionTableName)
	}

	return service.NewPartitionService(repo, x.RetentionDays)
}

// S3Service provides service.S3Service with S3 adaptor
func (x *Arguments) S3Service() *service.S3Service {
	return service.NewS3Service(x.newS3(), x.Region())
}

// AthenaService provides service.AthenaService with Athena adaptor
func (x *Arguments) AthenaService() *service.AthenaService {
	return service.NewAthenaService(x.newAthena(), x.NewTimer, x.Region())
}

// SQSService provides service.SQSService with SQS adaptor
func (x *Arguments) SQSService() *service.SQSService {
	return service.NewSQSService(x.newSQS())
}

// Partitioner builds partitioner.Partitioner from environment variables and adaptors
func (x *Arguments) Partitioner() (*partitioner.Partitioner, error) {
	cfg, err := x.PartitionerConfig()
	if err != nil {
		return nil, err
	}

	p, err := partitioner.New(cfg, partitioner.Services{
		S3:         x.S3Service(),
		Athena:     x.AthenaService(),
		Partitions: x.PartitionService(),
		SQS:        x.SQSService(),
	})
	if err != nil {
		return nil, err
	}

	if x.Sleep != nil {
		p.Sleep = x.Sleep
	}
	p.Now = x.CurrentTime
	return p, nil
}

// Reconciler builds partitioner.Reconciler. Only region and PARTITION_TABLE_NAME are required.
func (x *Arguments) Reconciler() (*partitioner.Reconciler, error) {
	if err := x.validateStore(); err != nil {
		return nil, err
	}

	return partitioner.NewReconciler(x.AthenaService(), x.PartitionService()), nil
}

func (x *Arguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}
func (x *Arguments) newAthena() adaptor.AthenaClientFactory {
	if x.NewAthena != nil {
		return x.NewAthena
	}
	return adaptor.NewAthenaClient
}
func (x *Arguments) newSQS() adaptor.SQSClientFactory {
	if x.NewSQS != nil {
		return x.NewSQS
	}
	return adaptor.NewSQSClient
}
