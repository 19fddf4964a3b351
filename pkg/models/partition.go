package models

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is day granularity format of partition date
const DateFormat = "2006-01-02"

const partitionKeyDelimiter = "#"

// PartitionKey identifies one partition of a log table.
type PartitionKey struct {
	LogType   string
	AccountID string
	Region    string
	Date      time.Time
}

// NewPartitionKey truncates date to day in UTC.
func NewPartitionKey(logType, accountID, region string, date time.Time) PartitionKey {
	return PartitionKey{
		LogType:   logType,
		AccountID: accountID,
		Region:    region,
		Date:      TruncateDate(date),
	}
}

// String returns "{log_type}#{account_id}#{region}#{date}" that is used as key of existence table.
func (x PartitionKey) String() string {
	return strings.Join([]string{
		x.LogType, x.AccountID, x.Region, x.Date.Format(DateFormat),
	}, partitionKeyDelimiter)
}

// ParsePartitionKey decodes a string built by PartitionKey.String
func ParsePartitionKey(raw string) (*PartitionKey, error) {
	parts := strings.Split(raw, partitionKeyDelimiter)
	if len(parts) != 4 {
		return nil, fmt.Errorf("Invalid partition key, 4 fields are required: %s", raw)
	}

	dt, err := time.Parse(DateFormat, parts[3])
	if err != nil {
		return nil, fmt.Errorf("Invalid date of partition key: %s", raw)
	}

	return &PartitionKey{
		LogType:   parts[0],
		AccountID: parts[1],
		Region:    parts[2],
		Date:      dt,
	}, nil
}

// TruncateDate returns 00:00:00 of the day in UTC
func TruncateDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// PartitionStatus is state of partition record in existence table
type PartitionStatus string

const (
	// PartitionPending means a registration query was submitted and not confirmed yet.
	PartitionPending PartitionStatus = "pending"
	// PartitionRegistered means the registration query succeeded.
	PartitionRegistered PartitionStatus = "registered"
)

// PartitionRecord is existence marker of a partition
type PartitionRecord struct {
	PartitionName    string          `dynamo:"PartitionName"`
	Status           PartitionStatus `dynamo:"status"`
	QueryExecutionID string          `dynamo:"query_execution_id,omitempty"`
	CreatedAt        int64           `dynamo:"created_at"`
	ExpiresAt        int64           `dynamo:"expires_at"`
}
