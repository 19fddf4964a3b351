package mock

import (
	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
)

// PartitionRepository is on memory repository.PartitionRepository with same conditions as DynamoDB
type PartitionRepository struct {
	Records map[string]*models.PartitionRecord

	// Error injection
	GetErr error
	PutErr error

	GetCount int
	PutCount int
}

// NewPartitionRepository is constructor of on memory PartitionRepository
func NewPartitionRepository() *PartitionRepository {
	return &PartitionRepository{
		Records: make(map[string]*models.PartitionRecord),
	}
}

// GetPartition of mock
func (x *PartitionRepository) GetPartition(partitionKey string) (*models.PartitionRecord, error) {
	x.GetCount++
	if x.GetErr != nil {
		return nil, x.GetErr
	}

	record, ok := x.Records[partitionKey]
	if !ok {
		return nil, repository.ErrPartitionNotFound
	}
	copied := *record
	return &copied, nil
}

// PutPartition of mock
func (x *PartitionRepository) PutPartition(record *models.PartitionRecord) error {
	x.PutCount++
	if x.PutErr != nil {
		return x.PutErr
	}

	if _, ok := x.Records[record.PartitionName]; ok {
		return repository.ErrPartitionExists
	}
	copied := *record
	x.Records[record.PartitionName] = &copied
	return nil
}

// ReclaimPartition of mock
func (x *PartitionRepository) ReclaimPartition(record *models.PartitionRecord, prevCreatedAt int64) error {
	x.PutCount++
	if x.PutErr != nil {
		return x.PutErr
	}

	current, ok := x.Records[record.PartitionName]
	if !ok || current.Status != models.PartitionPending ||
		current.QueryExecutionID != "" || current.CreatedAt != prevCreatedAt {
		return repository.ErrPartitionExists
	}

	copied := *record
	x.Records[record.PartitionName] = &copied
	return nil
}

// SetQueryExecutionID of mock
func (x *PartitionRepository) SetQueryExecutionID(partitionKey, queryExecutionID string) error {
	record, ok := x.Records[partitionKey]
	if !ok || record.QueryExecutionID != "" {
		return repository.ErrPartitionSuperseded
	}

	record.QueryExecutionID = queryExecutionID
	return nil
}

// ConfirmPartition of mock
func (x *PartitionRepository) ConfirmPartition(partitionKey, queryExecutionID string) error {
	record, ok := x.Records[partitionKey]
	if !ok || record.QueryExecutionID != queryExecutionID {
		return repository.ErrPartitionSuperseded
	}

	record.Status = models.PartitionRegistered
	return nil
}

// DeletePartition of mock
func (x *PartitionRepository) DeletePartition(partitionKey, queryExecutionID string) error {
	record, ok := x.Records[partitionKey]
	if !ok {
		if queryExecutionID == "" {
			return nil
		}
		return repository.ErrPartitionSuperseded
	}

	if record.QueryExecutionID != queryExecutionID {
		return repository.ErrPartitionSuperseded
	}

	delete(x.Records, partitionKey)
	return nil
}
