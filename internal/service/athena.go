package service

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
	"github.com/google/uuid"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/m-mizutani/athena-partitioner/internal/util"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// QueryState is simplified Athena query status
type QueryState string

const (
	QueryRunning   QueryState = "running"
	QuerySucceeded QueryState = "succeeded"
	QueryFailed    QueryState = "failed"
)

// https://docs.aws.amazon.com/athena/latest/APIReference/API_QueryExecutionStatus.html
// Valid Values: QUEUED | RUNNING | SUCCEEDED | FAILED | CANCELLED
var athenaQueryStateMap = map[string]QueryState{
	athena.QueryExecutionStateQueued:    QueryRunning,
	athena.QueryExecutionStateRunning:   QueryRunning,
	athena.QueryExecutionStateSucceeded: QuerySucceeded,
	athena.QueryExecutionStateFailed:    QueryFailed,
	athena.QueryExecutionStateCancelled: QueryFailed,
}

// ErrQueryFailed means Athena query ended with FAILED or CANCELLED
var ErrQueryFailed = fmt.Errorf("Athena query failed")

// DefaultQueryWaitLimit is number of GetQueryExecution calls in WaitQuery
const DefaultQueryWaitLimit = 30

// AthenaService is accessor to Athena
type AthenaService struct {
	newAthena adaptor.AthenaClientFactory
	newTimer  util.RetryTimerFactory
	region    string
	WaitLimit int
}

// NewAthenaService is constructor of AthenaService. newTimer can be nil.
func NewAthenaService(newAthena adaptor.AthenaClientFactory, newTimer util.RetryTimerFactory, region string) *AthenaService {
	if newTimer == nil {
		newTimer = util.NewExpRetryTimer
	}

	return &AthenaService{
		newAthena: newAthena,
		newTimer:  newTimer,
		region:    region,
		WaitLimit: DefaultQueryWaitLimit,
	}
}

// StartQuery submits sql and returns query execution ID without waiting result.
func (x *AthenaService) StartQuery(sql, database, outputLocation string) (string, error) {
	input := &athena.StartQueryExecutionInput{
		ClientRequestToken: aws.String(uuid.New().String()),
		QueryString:        aws.String(sql),
		ResultConfiguration: &athena.ResultConfiguration{
			OutputLocation: aws.String(outputLocation),
		},
	}
	if database != "" {
		input.QueryExecutionContext = &athena.QueryExecutionContext{
			Database: aws.String(database),
		}
	}

	logger.WithField("input", input).Info("Athena Query")

	client := x.newAthena(x.region)
	output, err := client.StartQueryExecution(input)
	logger.WithFields(logrus.Fields{
		"err":    err,
		"input":  input,
		"output": output,
	}).Debug("done")

	if err != nil {
		return "", errors.Wrap(err, "Fail to execute a partitioning query")
	}

	execID := aws.StringValue(output.QueryExecutionId)
	logger.WithField("execution_id", execID).Info("Started query")
	return execID, nil
}

// GetQueryState returns current state of the query
func (x *AthenaService) GetQueryState(execID string) (QueryState, error) {
	client := x.newAthena(x.region)
	output, err := client.GetQueryExecution(&athena.GetQueryExecutionInput{
		QueryExecutionId: aws.String(execID),
	})
	if err != nil {
		return "", errors.Wrapf(err, "Fail to get an execution result: %s", execID)
	}

	if output.QueryExecution == nil || output.QueryExecution.Status == nil {
		return "", fmt.Errorf("No status in GetQueryExecution output: %s", execID)
	}

	status := output.QueryExecution.Status
	athenaState := aws.StringValue(status.State)
	state, ok := athenaQueryStateMap[athenaState]
	if !ok {
		return "", fmt.Errorf("Unsupported Athena query state: %s", athenaState)
	}

	if state == QueryFailed {
		logger.WithFields(logrus.Fields{
			"execution_id": execID,
			"state":        athenaState,
			"reason":       aws.StringValue(status.StateChangeReason),
		}).Warn("Athena query failed")
	}

	return state, nil
}

// WaitQuery polls query state until it finishes. ErrQueryFailed is returned if the query failed.
func (x *AthenaService) WaitQuery(execID string) error {
	timer := x.newTimer(x.WaitLimit)

	err := timer.Run(func(seq int) (bool, error) {
		state, err := x.GetQueryState(execID)
		if err != nil {
			return false, err
		}

		switch state {
		case QuerySucceeded:
			return true, nil
		case QueryFailed:
			return false, errors.Wrapf(ErrQueryFailed, "execution ID: %s", execID)
		}

		logger.WithFields(logrus.Fields{"execution_id": execID, "seq": seq}).Debug("Waiting...")
		return false, nil
	})

	if err == util.ErrRetryLimitExceeded {
		return errors.Wrapf(err, "Athena query has not finished: %s", execID)
	}
	return err
}
