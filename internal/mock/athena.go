package mock

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/athena"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
)

// AthenaClient is mock of AWS Athena SDK. Every query turns into FinalState after
// RunningCount calls of GetQueryExecution.
type AthenaClient struct {
	Input        []*athena.StartQueryExecutionInput
	StartErr     error
	FinalState   string
	RunningCount int
	Region       string

	executions map[string]*mockExecution
}

type mockExecution struct {
	input  *athena.StartQueryExecutionInput
	polled int
}

// NewAthenaClient creates mock Athena client. Queries succeed immediately by default.
func NewAthenaClient(region string) adaptor.AthenaClient {
	return &AthenaClient{
		Region:     region,
		FinalState: athena.QueryExecutionStateSucceeded,
		executions: make(map[string]*mockExecution),
	}
}

// StartQueryExecution of mock stores input and returns sequential execution ID
func (x *AthenaClient) StartQueryExecution(input *athena.StartQueryExecutionInput) (*athena.StartQueryExecutionOutput, error) {
	if x.StartErr != nil {
		return nil, x.StartErr
	}

	x.Input = append(x.Input, input)
	id := fmt.Sprintf("exec-%d", len(x.Input))
	x.executions[id] = &mockExecution{input: input}

	return &athena.StartQueryExecutionOutput{QueryExecutionId: aws.String(id)}, nil
}

// GetQueryExecution of mock returns RUNNING until RunningCount and FinalState after that
func (x *AthenaClient) GetQueryExecution(input *athena.GetQueryExecutionInput) (*athena.GetQueryExecutionOutput, error) {
	exec, ok := x.executions[aws.StringValue(input.QueryExecutionId)]
	if !ok {
		return nil, fmt.Errorf("%s: no such execution %s", athena.ErrCodeInvalidRequestException,
			aws.StringValue(input.QueryExecutionId))
	}

	state := x.FinalState
	if exec.polled < x.RunningCount {
		state = athena.QueryExecutionStateRunning
	}
	exec.polled++

	return &athena.GetQueryExecutionOutput{
		QueryExecution: &athena.QueryExecution{
			QueryExecutionId:    input.QueryExecutionId,
			Query:               exec.input.QueryString,
			ResultConfiguration: exec.input.ResultConfiguration,
			Status: &athena.QueryExecutionStatus{
				State: aws.String(state),
			},
		},
	}, nil
}

// Queries returns submitted query strings
func (x *AthenaClient) Queries() []string {
	var queries []string
	for _, input := range x.Input {
		queries = append(queries, aws.StringValue(input.QueryString))
	}
	return queries
}
