package models

import (
	"net/http"
	"time"
)

// RegistrationResult is outcome of registration for one partition
type RegistrationResult string

const (
	// ResultCreated means partition was added and confirmed.
	ResultCreated RegistrationResult = "created"
	// ResultPending means query was submitted and will be confirmed by reconciler.
	ResultPending RegistrationResult = "pending"
	// ResultExists means the partition was already recorded.
	ResultExists RegistrationResult = "exists"
	// ResultClaimed means another run recorded the partition concurrently.
	ResultClaimed RegistrationResult = "claimed"
)

// PartitionDescriptor is one processed partition in Summary
type PartitionDescriptor struct {
	Key       string             `json:"key"`
	AccountID string             `json:"account_id"`
	Region    string             `json:"region"`
	Date      string             `json:"date"`
	Result    RegistrationResult `json:"result"`
}

// Summary is response of partitioner lambda
type Summary struct {
	StatusCode int                   `json:"statusCode"`
	Body       string                `json:"body"`
	Date       string                `json:"date"`
	Count      int                   `json:"count"`
	Partitions []PartitionDescriptor `json:"partitions"`
}

// NewSummary creates empty Summary of the date
func NewSummary(date time.Time) *Summary {
	return &Summary{
		StatusCode: http.StatusOK,
		Body:       "Athena Partitions created",
		Date:       date.Format(DateFormat),
		Partitions: []PartitionDescriptor{},
	}
}

// Add appends result of a partition
func (x *Summary) Add(key PartitionKey, result RegistrationResult) {
	x.Partitions = append(x.Partitions, PartitionDescriptor{
		Key:       key.String(),
		AccountID: key.AccountID,
		Region:    key.Region,
		Date:      key.Date.Format(DateFormat),
		Result:    result,
	})
	x.Count = len(x.Partitions)
}

// CountOf returns number of partitions with the result
func (x *Summary) CountOf(result RegistrationResult) int {
	n := 0
	for _, p := range x.Partitions {
		if p.Result == result {
			n++
		}
	}
	return n
}
