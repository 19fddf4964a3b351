package service

import (
	"time"

	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
)

// Existence is result of partition lookup
type Existence int

const (
	// PartitionAbsent means the key is not recorded
	PartitionAbsent Existence = iota
	// PartitionRegistered means the registration query of the key succeeded
	PartitionRegistered
	// PartitionPending means the key is claimed and its query is submitted or about to be
	PartitionPending
	// PartitionOrphaned means the key was claimed but no query was submitted within ClaimTimeout
	PartitionOrphaned
	// PartitionLookupFailed means existence table could not be read
	PartitionLookupFailed
)

func (x Existence) String() string {
	switch x {
	case PartitionAbsent:
		return "absent"
	case PartitionRegistered:
		return "registered"
	case PartitionPending:
		return "pending"
	case PartitionOrphaned:
		return "orphaned"
	case PartitionLookupFailed:
		return "lookup-failed"
	}
	return "unknown"
}

const (
	// DefaultRetentionDays is lifetime of partition record before DynamoDB TTL removes it
	DefaultRetentionDays = 365
	// DefaultClaimTimeout is max execution time of AWS Lambda. A claim without query
	// execution ID older than this is left by a dead run.
	DefaultClaimTimeout = 15 * time.Minute
)

// PartitionService is accessor of PartitionRepository with cache of registered keys
type PartitionService struct {
	repo            repository.PartitionRepository
	retention       time.Duration
	cacheRegistered map[string]bool
	ClaimTimeout    time.Duration
}

// NewPartitionService is constructor of PartitionService. retentionDays <= 0 means DefaultRetentionDays.
func NewPartitionService(repo repository.PartitionRepository, retentionDays int) *PartitionService {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}

	return &PartitionService{
		repo:            repo,
		retention:       time.Hour * 24 * time.Duration(retentionDays),
		cacheRegistered: make(map[string]bool),
		ClaimTimeout:    DefaultClaimTimeout,
	}
}

// Lookup checks an existance of partition. The record is returned unless absent or failed.
// Only registered result is cached.
func (x *PartitionService) Lookup(partitionKey string, now time.Time) (Existence, *models.PartitionRecord, error) {
	if x.cacheRegistered[partitionKey] {
		return PartitionRegistered, nil, nil
	}

	record, err := x.repo.GetPartition(partitionKey)
	if err != nil {
		if err == repository.ErrPartitionNotFound {
			return PartitionAbsent, nil, nil
		}
		return PartitionLookupFailed, nil, err
	}

	if record.Status == models.PartitionRegistered {
		x.cacheRegistered[partitionKey] = true
		return PartitionRegistered, record, nil
	}

	if record.QueryExecutionID == "" {
		claimedAt := time.Unix(record.CreatedAt, 0)
		if now.Sub(claimedAt) >= x.ClaimTimeout {
			return PartitionOrphaned, record, nil
		}
	}

	return PartitionPending, record, nil
}

// Get returns partition record. repository.ErrPartitionNotFound is returned if absent.
func (x *PartitionService) Get(partitionKey string) (*models.PartitionRecord, error) {
	return x.repo.GetPartition(partitionKey)
}

func (x *PartitionService) newRecord(partitionKey string, now time.Time) *models.PartitionRecord {
	return &models.PartitionRecord{
		PartitionName: partitionKey,
		Status:        models.PartitionPending,
		CreatedAt:     now.UTC().Unix(),
		ExpiresAt:     now.UTC().Add(x.retention).Unix(),
	}
}

// Claim records the partition as pending. repository.ErrPartitionExists is returned
// if the partition has been already recorded.
func (x *PartitionService) Claim(partitionKey string, now time.Time) error {
	return x.repo.PutPartition(x.newRecord(partitionKey, now))
}

// Reclaim takes over an orphaned record. repository.ErrPartitionExists is returned if
// the record has been changed since lookup.
func (x *PartitionService) Reclaim(orphan *models.PartitionRecord, now time.Time) error {
	return x.repo.ReclaimPartition(x.newRecord(orphan.PartitionName, now), orphan.CreatedAt)
}

// MarkPending saves query execution ID of the claimed partition
func (x *PartitionService) MarkPending(partitionKey, queryExecutionID string) error {
	if err := x.repo.SetQueryExecutionID(partitionKey, queryExecutionID); err != nil {
		return errors.Wrapf(err, "Fail to mark partition as pending: %s", partitionKey)
	}
	return nil
}

// Confirm changes status of the partition to registered. repository.ErrPartitionSuperseded
// (as cause) means the record does not belong to queryExecutionID.
func (x *PartitionService) Confirm(partitionKey, queryExecutionID string) error {
	if err := x.repo.ConfirmPartition(partitionKey, queryExecutionID); err != nil {
		return errors.Wrapf(err, "Fail to confirm partition: %s", partitionKey)
	}
	x.cacheRegistered[partitionKey] = true
	return nil
}

// Release removes the record of queryExecutionID so that next run registers the partition
// again. Empty queryExecutionID releases a claim whose query was not submitted.
func (x *PartitionService) Release(partitionKey, queryExecutionID string) error {
	delete(x.cacheRegistered, partitionKey)
	if err := x.repo.DeletePartition(partitionKey, queryExecutionID); err != nil {
		return errors.Wrapf(err, "Fail to release partition: %s", partitionKey)
	}
	return nil
}

// IsSuperseded returns true if err is caused by a record owned by another query execution
func IsSuperseded(err error) bool {
	return errors.Cause(err) == repository.ErrPartitionSuperseded
}
