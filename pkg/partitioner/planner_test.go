package partitioner_test

import (
	"testing"

	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartitionsToCreate(t *testing.T) {
	accounts := []string{"111", "222"}
	regions := []string{"eu-west-1", "us-east-1"}

	keys := partitioner.PartitionsToCreate(accounts, regions, "cloudtrail", testDate)
	require.Equal(t, 4, len(keys))

	var encoded []string
	unique := map[string]struct{}{}
	for _, key := range keys {
		encoded = append(encoded, key.String())
		unique[key.String()] = struct{}{}
	}
	assert.Equal(t, 4, len(unique))
	assert.Equal(t, []string{
		"cloudtrail#111#eu-west-1#2024-03-05",
		"cloudtrail#111#us-east-1#2024-03-05",
		"cloudtrail#222#eu-west-1#2024-03-05",
		"cloudtrail#222#us-east-1#2024-03-05",
	}, encoded)

	t.Run("empty input", func(tt *testing.T) {
		assert.Equal(tt, 0, len(partitioner.PartitionsToCreate(nil, regions, "cloudtrail", testDate)))
		assert.Equal(tt, 0, len(partitioner.PartitionsToCreate(accounts, nil, "cloudtrail", testDate)))
	})
}
