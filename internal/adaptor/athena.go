package adaptor

import (
	"github.com/aws/aws-sdk-go/service/athena"
)

// AthenaClientFactory is interface AthenaClient constructor
type AthenaClientFactory func(region string) AthenaClient

// AthenaClient is interface of AWS Athena SDK
type AthenaClient interface {
	StartQueryExecution(input *athena.StartQueryExecutionInput) (*athena.StartQueryExecutionOutput, error)
	GetQueryExecution(input *athena.GetQueryExecutionInput) (*athena.GetQueryExecutionOutput, error)
}

// NewAthenaClient creates actual AWS Athena SDK client
func NewAthenaClient(region string) AthenaClient {
	return athena.New(newSession(region))
}
