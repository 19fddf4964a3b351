package repository

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
)

// PartitionRepository is interface of partition existence store
type PartitionRepository interface {
	GetPartition(partitionKey string) (*models.PartitionRecord, error)
	PutPartition(record *models.PartitionRecord) error
	ReclaimPartition(record *models.PartitionRecord, prevCreatedAt int64) error
	SetQueryExecutionID(partitionKey, queryExecutionID string) error
	ConfirmPartition(partitionKey, queryExecutionID string) error
	DeletePartition(partitionKey, queryExecutionID string) error
}

var (
	// ErrPartitionExists means conditional put failed because the key is already recorded
	ErrPartitionExists = fmt.Errorf("Partition is already recorded")
	// ErrPartitionNotFound means the key is not recorded
	ErrPartitionNotFound = fmt.Errorf("Partition is not recorded")
	// ErrPartitionSuperseded means the record is gone or owned by another query execution
	ErrPartitionSuperseded = fmt.Errorf("Partition record is owned by another query execution")
)

const (
	partitionHashKey      = "PartitionName"
	partitionStatusKey    = "status"
	partitionExecIDKey    = "query_execution_id"
	partitionCreatedAtKey = "created_at"
)

// PartitionDynamoDB is implementation of PartitionRepository
type PartitionDynamoDB struct {
	table dynamo.Table
}

// NewPartitionDynamoDB is a constructor of PartitionDynamoDB as PartitionRepository
func NewPartitionDynamoDB(region, tableName string) PartitionRepository {
	db := dynamo.New(session.New(), &aws.Config{Region: aws.String(region)})

	return &PartitionDynamoDB{
		table: db.Table(tableName),
	}
}

// GetPartition returns ErrPartitionNotFound if no record
func (x *PartitionDynamoDB) GetPartition(partitionKey string) (*models.PartitionRecord, error) {
	var record models.PartitionRecord
	if err := x.table.Get(partitionHashKey, partitionKey).One(&record); err != nil {
		if err == dynamo.ErrNotFound {
			return nil, ErrPartitionNotFound
		}

		return nil, errors.Wrapf(err, "Fail to get partition key: %s", partitionKey)
	}

	return &record, nil
}

// PutPartition writes record only if the key does not exist.
func (x *PartitionDynamoDB) PutPartition(record *models.PartitionRecord) error {
	query := x.table.Put(record).If("attribute_not_exists($)", partitionHashKey)
	if err := query.Run(); err != nil {
		if isConditionalCheckErr(err) {
			return ErrPartitionExists
		}
		return errors.Wrapf(err, "Fail to put partition key: %v", record)
	}

	return nil
}

// ReclaimPartition overwrites a pending record that has no query execution ID. created_at
// must be still prevCreatedAt, so only one of concurrent runs can take it over.
func (x *PartitionDynamoDB) ReclaimPartition(record *models.PartitionRecord, prevCreatedAt int64) error {
	query := x.table.Put(record).
		If("$ = ?", partitionStatusKey, models.PartitionPending).
		If("attribute_not_exists($)", partitionExecIDKey).
		If("$ = ?", partitionCreatedAtKey, prevCreatedAt)

	if err := query.Run(); err != nil {
		if isConditionalCheckErr(err) {
			return ErrPartitionExists
		}
		return errors.Wrapf(err, "Fail to reclaim partition key: %v", record)
	}

	return nil
}

// SetQueryExecutionID saves query execution ID to a claimed record that has no ID yet
func (x *PartitionDynamoDB) SetQueryExecutionID(partitionKey, queryExecutionID string) error {
	query := x.table.Update(partitionHashKey, partitionKey).
		Set(partitionExecIDKey, queryExecutionID).
		If("attribute_exists($)", partitionHashKey).
		If("attribute_not_exists($)", partitionExecIDKey)

	if err := query.Run(); err != nil {
		if isConditionalCheckErr(err) {
			return ErrPartitionSuperseded
		}
		return errors.Wrapf(err, "Fail to set query execution ID: %s", partitionKey)
	}

	return nil
}

// ConfirmPartition changes status to registered if the record belongs to queryExecutionID
func (x *PartitionDynamoDB) ConfirmPartition(partitionKey, queryExecutionID string) error {
	query := x.table.Update(partitionHashKey, partitionKey).
		Set(partitionStatusKey, models.PartitionRegistered).
		If("$ = ?", partitionExecIDKey, queryExecutionID)

	if err := query.Run(); err != nil {
		if isConditionalCheckErr(err) {
			return ErrPartitionSuperseded
		}
		return errors.Wrapf(err, "Fail to confirm partition key: %s", partitionKey)
	}

	return nil
}

// DeletePartition removes a record that belongs to queryExecutionID. Empty queryExecutionID
// means a record whose query was not submitted. Deleting absent key with empty ID is not error.
func (x *PartitionDynamoDB) DeletePartition(partitionKey, queryExecutionID string) error {
	query := x.table.Delete(partitionHashKey, partitionKey)
	if queryExecutionID == "" {
		query = query.If("attribute_not_exists($)", partitionExecIDKey)
	} else {
		query = query.If("$ = ?", partitionExecIDKey, queryExecutionID)
	}

	if err := query.Run(); err != nil {
		if isConditionalCheckErr(err) {
			return ErrPartitionSuperseded
		}
		return errors.Wrapf(err, "Fail to delete partition key: %s", partitionKey)
	}

	return nil
}
