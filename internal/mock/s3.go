package mock

import (
	"errors"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/m-mizutani/athena-partitioner/internal/adaptor"
)

// NewS3Client is constructor of S3 Mock
func NewS3Client(region string) adaptor.S3Client {
	return &S3Client{
		data:     mockS3ClientDataStore,
		PageSize: 1000,
	}
}

// S3Client is on memory S3Client mock. Only object keys are stored.
type S3Client struct {
	data     map[string]map[string]struct{}
	PageSize int
	Inputs   []*s3.ListObjectsV2Input
}

var mockS3ClientDataStore = map[string]map[string]struct{}{}

// PutKeys of S3Client saves object keys to memory
func (x *S3Client) PutKeys(bucket string, keys ...string) {
	bkt, ok := x.data[bucket]
	if !ok {
		bkt = map[string]struct{}{}
		x.data[bucket] = bkt
	}

	for _, key := range keys {
		bkt[key] = struct{}{}
	}
}

// ListObjectsV2Pages of S3Client groups keys by Delimiter and calls fn for each page
func (x *S3Client) ListObjectsV2Pages(input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	x.Inputs = append(x.Inputs, input)

	bkt, ok := x.data[aws.StringValue(input.Bucket)]
	if !ok {
		return errors.New(s3.ErrCodeNoSuchBucket)
	}

	prefix := aws.StringValue(input.Prefix)
	delim := aws.StringValue(input.Delimiter)

	var keys []string
	for key := range bkt {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var contents []*s3.Object
	var commonPrefixes []*s3.CommonPrefix
	seen := map[string]struct{}{}
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		rest := key[len(prefix):]
		if delim != "" {
			if idx := strings.Index(rest, delim); idx >= 0 {
				cp := prefix + rest[:idx+len(delim)]
				if _, ok := seen[cp]; !ok {
					seen[cp] = struct{}{}
					commonPrefixes = append(commonPrefixes, &s3.CommonPrefix{Prefix: aws.String(cp)})
				}
				continue
			}
		}

		contents = append(contents, &s3.Object{Key: aws.String(key)})
	}

	pageSize := x.PageSize
	if pageSize <= 0 {
		pageSize = 1000
	}

	for s := 0; ; s += pageSize {
		page := &s3.ListObjectsV2Output{
			Name:   input.Bucket,
			Prefix: input.Prefix,
		}
		if s < len(commonPrefixes) {
			e := s + pageSize
			if e > len(commonPrefixes) {
				e = len(commonPrefixes)
			}
			page.CommonPrefixes = commonPrefixes[s:e]
		}
		if s == 0 {
			page.Contents = contents
		}

		last := s+pageSize >= len(commonPrefixes)
		page.IsTruncated = aws.Bool(!last)
		if !fn(page, last) || last {
			return nil
		}
	}
}
