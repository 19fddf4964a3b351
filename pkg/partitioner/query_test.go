package partitioner_test

import (
	"testing"

	"github.com/m-mizutani/athena-partitioner/pkg/partitioner"
	"github.com/stretchr/testify/assert"
)

func TestBuildPartitionQuery(t *testing.T) {
	sql := partitioner.BuildPartitionQuery("111", "eu-west-1", "tbl", "mybucket", "logs/{account_id}/", testDate)

	assert.Contains(t, sql, "ALTER TABLE tbl ADD IF NOT EXISTS PARTITION (")
	assert.Contains(t, sql, "accountid='111'")
	assert.Contains(t, sql, "regioncode='eu-west-1'")
	assert.Contains(t, sql, "`date`='2024-03-05'")
	assert.Contains(t, sql, "LOCATION 's3://mybucket/logs/111/eu-west-1/2024/03/05/'")
}

func TestPartitionLocation(t *testing.T) {
	assert.Equal(t, "s3://mybucket/AWSLogs/222/CloudTrail/us-east-1/2024/03/05/",
		partitioner.PartitionLocation("222", "us-east-1", "mybucket", "AWSLogs/{account_id}/CloudTrail/", testDate))
}
