package adaptor

import (
	"github.com/aws/aws-sdk-go/service/sqs"
)

// SQSClientFactory builds SQSClient for region of the reconcile queue
type SQSClientFactory func(region string) SQSClient

// SQSClient sends reconcile messages of pending partitions. Receiving is done by
// the Lambda event source mapping, then only SendMessage is needed.
type SQSClient interface {
	SendMessage(*sqs.SendMessageInput) (*sqs.SendMessageOutput, error)
}

// NewSQSClient returns SQS client of AWS SDK bound to region
func NewSQSClient(region string) SQSClient {
	return sqs.New(newSession(region))
}
