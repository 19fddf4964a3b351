package partitioner

import (
	"time"

	"github.com/m-mizutani/athena-partitioner/pkg/models"
)

// PartitionsToCreate returns cross product of accounts and regions on the date.
// Accounts are outer loop and regions are inner loop.
func PartitionsToCreate(accounts, regions []string, logType string, date time.Time) []models.PartitionKey {
	keys := make([]models.PartitionKey, 0, len(accounts)*len(regions))
	for _, account := range accounts {
		for _, region := range regions {
			keys = append(keys, models.NewPartitionKey(logType, account, region, date))
		}
	}
	return keys
}
