package repository_test

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/athena-partitioner/internal/repository"
	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionDynamoDB(t *testing.T) {
	region := os.Getenv("PARTITIONER_TEST_REGION")
	table := os.Getenv("PARTITIONER_TEST_TABLE")

	if region == "" || table == "" {
		t.Skip("Both of PARTITIONER_TEST_REGION and PARTITIONER_TEST_TABLE are required")
	}

	repo := repository.NewPartitionDynamoDB(region, table)
	pkey := uuid.New().String()
	now := time.Now().UTC()

	_, err := repo.GetPartition(pkey)
	require.Equal(t, repository.ErrPartitionNotFound, err)

	record := &models.PartitionRecord{
		PartitionName: pkey,
		Status:        models.PartitionPending,
		CreatedAt:     now.Unix(),
		ExpiresAt:     now.Add(time.Hour).Unix(),
	}
	require.NoError(t, repo.PutPartition(record))
	assert.Equal(t, repository.ErrPartitionExists, repo.PutPartition(record))

	require.NoError(t, repo.SetQueryExecutionID(pkey, "exec-1"))
	assert.Equal(t, repository.ErrPartitionSuperseded, repo.SetQueryExecutionID(pkey, "exec-2"))

	assert.Equal(t, repository.ErrPartitionSuperseded, repo.ConfirmPartition(pkey, "exec-0"))
	require.NoError(t, repo.ConfirmPartition(pkey, "exec-1"))
	got, err := repo.GetPartition(pkey)
	require.NoError(t, err)
	assert.Equal(t, models.PartitionRegistered, got.Status)
	assert.Equal(t, "exec-1", got.QueryExecutionID)

	assert.Equal(t, repository.ErrPartitionSuperseded, repo.DeletePartition(pkey, "exec-0"))
	require.NoError(t, repo.DeletePartition(pkey, "exec-1"))
	_, err = repo.GetPartition(pkey)
	assert.Equal(t, repository.ErrPartitionNotFound, err)

	assert.Equal(t, repository.ErrPartitionSuperseded,
		repo.ConfirmPartition(uuid.New().String(), "exec-1"))
	assert.NoError(t, repo.DeletePartition(uuid.New().String(), ""))

	t.Run("reclaim orphaned record", func(tt *testing.T) {
		okey := uuid.New().String()
		orphan := &models.PartitionRecord{
			PartitionName: okey,
			Status:        models.PartitionPending,
			CreatedAt:     now.Add(-time.Hour).Unix(),
			ExpiresAt:     now.Add(time.Hour).Unix(),
		}
		require.NoError(tt, repo.PutPartition(orphan))

		renewed := *orphan
		renewed.CreatedAt = now.Unix()
		require.NoError(tt, repo.ReclaimPartition(&renewed, orphan.CreatedAt))
		assert.Equal(tt, repository.ErrPartitionExists, repo.ReclaimPartition(&renewed, orphan.CreatedAt))
		require.NoError(tt, repo.DeletePartition(okey, ""))
	})
}
