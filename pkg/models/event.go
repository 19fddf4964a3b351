package models

import (
	"fmt"
	"strings"
)

// AccountIDPlaceholder is replaced with account ID in bucket prefix template
const AccountIDPlaceholder = "{account_id}"

// InvocationEvent is payload given by scheduler to partitioner lambda
type InvocationEvent struct {
	BucketName       string  `json:"bucket_name" yaml:"bucket_name"`
	BucketPrefix     *string `json:"bucket_prefix" yaml:"bucket_prefix"`
	BucketLogsPrefix string  `json:"bucket_logs_prefix" yaml:"bucket_logs_prefix"`
	GlueTableName    string  `json:"glue_table_name" yaml:"glue_table_name"`
	LogType          string  `json:"log_type" yaml:"log_type"`
}

// Validate checks all required fields. bucket_prefix must be given but may be empty
// string for accounts at bucket root.
func (x *InvocationEvent) Validate() error {
	required := []struct {
		name    string
		present bool
	}{
		{"bucket_name", x.BucketName != ""},
		{"bucket_prefix", x.BucketPrefix != nil},
		{"bucket_logs_prefix", x.BucketLogsPrefix != ""},
		{"glue_table_name", x.GlueTableName != ""},
		{"log_type", x.LogType != ""},
	}

	for _, field := range required {
		if !field.present {
			return fmt.Errorf("%s is required in invocation event", field.name)
		}
	}

	if !strings.Contains(x.RegionPrefixTemplate(), AccountIDPlaceholder) {
		return fmt.Errorf("bucket_prefix + bucket_logs_prefix must contain %s", AccountIDPlaceholder)
	}

	return nil
}

// Prefix returns bucket_prefix, empty string if not given
func (x *InvocationEvent) Prefix() string {
	if x.BucketPrefix == nil {
		return ""
	}
	return *x.BucketPrefix
}

// RegionPrefixTemplate returns prefix template of region directories
func (x *InvocationEvent) RegionPrefixTemplate() string {
	return x.Prefix() + x.BucketLogsPrefix
}

// ExpandPrefix replaces AccountIDPlaceholder in template with accountID
func ExpandPrefix(template, accountID string) string {
	return strings.Replace(template, AccountIDPlaceholder, accountID, -1)
}
