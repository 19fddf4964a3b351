package partitioner

import (
	"fmt"
	"time"

	"github.com/m-mizutani/athena-partitioner/pkg/models"
)

// PartitionLocation returns s3://{bucket}/{prefix}{region}/{YYYY}/{MM}/{DD}/
func PartitionLocation(accountID, region, bucket, prefixTemplate string, date time.Time) string {
	return fmt.Sprintf("s3://%s/%s%s/%s/",
		bucket, models.ExpandPrefix(prefixTemplate, accountID), region, date.Format("2006/01/02"))
}

// BuildPartitionQuery returns ALTER TABLE statement to add a partition of account, region and date.
// Values are not escaped. They must come from S3 listing, not from user input.
func BuildPartitionQuery(accountID, region, table, bucket, prefixTemplate string, date time.Time) string {
	return fmt.Sprintf("ALTER TABLE %s ADD IF NOT EXISTS PARTITION "+
		"(accountid='%s', regioncode='%s', `date`='%s') LOCATION '%s'",
		table, accountID, region, date.Format(models.DateFormat),
		PartitionLocation(accountID, region, bucket, prefixTemplate, date))
}
