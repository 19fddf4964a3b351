package partitioner_test

import (
	"testing"

	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery(t *testing.T) {
	env := newTestEnv()
	p := env.partitioner(t, partitioner.Config{})

	t.Run("list accounts", func(tt *testing.T) {
		accounts, err := p.ListAccounts(env.bucket, "AWSLogs/")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"111", "222"}, accounts)
	})

	t.Run("list regions of an account", func(tt *testing.T) {
		regions, err := p.ListRegions(env.bucket, "AWSLogs/{account_id}/CloudTrail/", "111")
		require.NoError(tt, err)
		assert.Equal(tt, []string{"eu-west-1", "us-east-1"}, regions)
	})

	t.Run("no account is error", func(tt *testing.T) {
		_, err := p.ListAccounts(env.bucket, "NoLogs/")
		require.Error(tt, err)
		assert.Equal(tt, partitioner.ErrNoAccounts, errors.Cause(err))
	})

	t.Run("no region is error", func(tt *testing.T) {
		_, err := p.ListRegions(env.bucket, "AWSLogs/{account_id}/VPCFlowLogs/", "111")
		require.Error(tt, err)
		assert.Equal(tt, partitioner.ErrNoRegions, errors.Cause(err))
	})
}
