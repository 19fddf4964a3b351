package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/m-mizutani/athena-partitioner/internal/mock"
	"github.com/m-mizutani/athena-partitioner/internal/service"
	"github.com/m-mizutani/athena-partitioner/internal/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noWaitTimer(limit int) util.RetryTimer {
	return util.NewExpRetryTimerWithSleep(limit, func(time.Duration) {})
}

func newAthenaService(client *mock.AthenaClient) *service.AthenaService {
	return service.NewAthenaService(func(region string) adaptor.AthenaClient { return client }, noWaitTimer, "eu-west-1")
}

func TestAthenaStartQuery(t *testing.T) {
	t.Run("Submit query with output location and database", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		svc := newAthenaService(client)

		execID, err := svc.StartQuery("ALTER TABLE t ADD PARTITION (x='1')", "logs_db", "s3://results/")
		require.NoError(tt, err)
		assert.Equal(tt, "exec-1", execID)

		require.Equal(tt, 1, len(client.Input))
		input := client.Input[0]
		assert.Equal(tt, "ALTER TABLE t ADD PARTITION (x='1')", aws.StringValue(input.QueryString))
		assert.Equal(tt, "logs_db", aws.StringValue(input.QueryExecutionContext.Database))
		assert.Equal(tt, "s3://results/", aws.StringValue(input.ResultConfiguration.OutputLocation))
		assert.NotEqual(tt, "", aws.StringValue(input.ClientRequestToken))
	})

	t.Run("Request tokens are unique", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		svc := newAthenaService(client)
		_, err := svc.StartQuery("q1", "db", "s3://results/")
		require.NoError(tt, err)
		_, err = svc.StartQuery("q2", "db", "s3://results/")
		require.NoError(tt, err)
		assert.NotEqual(tt, aws.StringValue(client.Input[0].ClientRequestToken),
			aws.StringValue(client.Input[1].ClientRequestToken))
	})

	t.Run("Submission error", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		client.StartErr = fmt.Errorf("TooManyRequestsException")
		svc := newAthenaService(client)
		_, err := svc.StartQuery("q", "db", "s3://results/")
		require.Error(tt, err)
	})
}

func TestAthenaWaitQuery(t *testing.T) {
	t.Run("Wait until succeeded", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		client.RunningCount = 3
		svc := newAthenaService(client)

		execID, err := svc.StartQuery("q", "db", "s3://results/")
		require.NoError(tt, err)
		require.NoError(tt, svc.WaitQuery(execID))
	})

	t.Run("Failed query", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		client.FinalState = athena.QueryExecutionStateFailed
		svc := newAthenaService(client)

		execID, err := svc.StartQuery("q", "db", "s3://results/")
		require.NoError(tt, err)
		err = svc.WaitQuery(execID)
		require.Error(tt, err)
		assert.Equal(tt, service.ErrQueryFailed, errors.Cause(err))
	})

	t.Run("Cancelled query is failure", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		client.FinalState = athena.QueryExecutionStateCancelled
		svc := newAthenaService(client)

		execID, err := svc.StartQuery("q", "db", "s3://results/")
		require.NoError(tt, err)
		state, err := svc.GetQueryState(execID)
		require.NoError(tt, err)
		assert.Equal(tt, service.QueryFailed, state)
	})

	t.Run("Query does not finish", func(tt *testing.T) {
		client := mock.NewAthenaClient("eu-west-1").(*mock.AthenaClient)
		client.RunningCount = 100
		svc := newAthenaService(client)
		svc.WaitLimit = 5

		execID, err := svc.StartQuery("q", "db", "s3://results/")
		require.NoError(tt, err)
		err = svc.WaitQuery(execID)
		require.Error(tt, err)
		assert.Equal(tt, util.ErrRetryLimitExceeded, errors.Cause(err))
	})
}
