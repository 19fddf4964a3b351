package service

import (
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// SQSService is accessor to SQS
type SQSService struct {
	newSQS adaptor.SQSClientFactory
}

// NewSQSService is constructor of SQSService
func NewSQSService(newSQS adaptor.SQSClientFactory) *SQSService {
	return &SQSService{
		newSQS: newSQS,
	}
}

// QueueURL sample: https://sqs.eu-west-2.amazonaws.com/123456789012/queue-name
func regionOfQueueURL(url string) (string, error) {
	urlParts := strings.Split(url, "/")
	if len(urlParts) < 3 {
		logger.WithField("url", url).Error("Failed to parse URL (not enough slash)")
		return "", errors.New("Invalid SQS Queue URL")
	}

	domainParts := strings.Split(urlParts[2], ".")
	if len(domainParts) != 4 {
		logger.WithField("url", url).Error("Failed to parse URL (not enough dot in FQDN)")
		return "", errors.New("Invalid SQS Queue URL")
	}

	return domainParts[1], nil
}

// SendSQS marshals msg to JSON and sends it. Region of client is taken from url.
func (x *SQSService) SendSQS(msg interface{}, url string) error {
	region, err := regionOfQueueURL(url)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "Fail to marshal message: %v", msg)
	}

	input := sqs.SendMessageInput{
		QueueUrl:    aws.String(url),
		MessageBody: aws.String(string(raw)),
	}

	resp, err := x.newSQS(region).SendMessage(&input)
	if err != nil {
		return errors.Wrapf(err, "Fail to send SQS message: %v", input)
	}

	logger.WithFields(logrus.Fields{
		"resp": resp,
		"url":  url,
	}).Debug("Sent SQS message")

	return nil
}
