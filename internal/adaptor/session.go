package adaptor

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
)

// maxRetries covers throttling of Athena and DynamoDB on a large account x region matrix
const maxRetries = 5

func newSession(region string) *session.Session {
	return session.Must(session.NewSession(&aws.Config{
		Region:     aws.String(region),
		MaxRetries: aws.Int(maxRetries),
	}))
}
