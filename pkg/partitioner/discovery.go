package partitioner

import (
	"fmt"

	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoAccounts means no account directory under bucket_prefix
	ErrNoAccounts = fmt.Errorf("No account directory found")
	// ErrNoRegions means no region directory under log prefix of the account
	ErrNoRegions = fmt.Errorf("No region directory found")
)

// ListAccounts returns account IDs that are directory names just under prefix.
func (x *Partitioner) ListAccounts(bucket, prefix string) ([]string, error) {
	accounts, err := x.s3.ListDirectories(bucket, prefix)
	if err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, errors.Wrapf(ErrNoAccounts, "s3://%s/%s", bucket, prefix)
	}

	logger.WithFields(logrus.Fields{
		"bucket":   bucket,
		"prefix":   prefix,
		"accounts": accounts,
	}).Info("Discovered accounts")

	return accounts, nil
}

// ListRegions returns region names under prefixTemplate where {account_id} is replaced with accountID.
func (x *Partitioner) ListRegions(bucket, prefixTemplate, accountID string) ([]string, error) {
	prefix := models.ExpandPrefix(prefixTemplate, accountID)
	regions, err := x.s3.ListDirectories(bucket, prefix)
	if err != nil {
		return nil, err
	}

	if len(regions) == 0 {
		return nil, errors.Wrapf(ErrNoRegions, "s3://%s/%s", bucket, prefix)
	}

	logger.WithFields(logrus.Fields{
		"bucket":  bucket,
		"prefix":  prefix,
		"regions": regions,
	}).Info("Discovered regions")

	return regions, nil
}
