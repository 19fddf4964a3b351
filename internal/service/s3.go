package service

import (
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const s3PathDelimiter = "/"

// S3Service is accessor to S3
type S3Service struct {
	newS3  adaptor.S3ClientFactory
	region string
}

// NewS3Service is constructor of S3Service
func NewS3Service(newS3 adaptor.S3ClientFactory, region string) *S3Service {
	return &S3Service{
		newS3:  newS3,
		region: region,
	}
}

// ListDirectories returns names of directories just under prefix. The names have
// neither prefix nor trailing "/". Order follows S3 response.
func (x *S3Service) ListDirectories(bucket, prefix string) ([]string, error) {
	client := x.newS3(x.region)
	input := &s3.ListObjectsV2Input{
		Bucket:    aws.String(bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(s3PathDelimiter),
	}

	var dirs []string
	err := client.ListObjectsV2Pages(input, func(page *s3.ListObjectsV2Output, last bool) bool {
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimPrefix(aws.StringValue(cp.Prefix), prefix)
			name = strings.Replace(name, s3PathDelimiter, "", -1)
			if name != "" {
				dirs = append(dirs, name)
			}
		}
		return true
	})

	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			return nil, errors.Wrapf(aerr, "Fail to list objects in AWS: %s/%s", bucket, prefix)
		}
		return nil, errors.Wrapf(err, "Fail to list objects: %s/%s", bucket, prefix)
	}

	logger.WithFields(logrus.Fields{
		"bucket": bucket,
		"prefix": prefix,
		"dirs":   dirs,
	}).Debug("Listed directories")

	return dirs, nil
}
