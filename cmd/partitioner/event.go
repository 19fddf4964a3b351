package main

import (
	"io/ioutil"

	"github.com/m-mizutani/athena-partitioner/pkg/models"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadEvent reads invocation event from YAML file. JSON file is also accepted as YAML.
func loadEvent(path string) (*models.InvocationEvent, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read event file: %s", path)
	}

	var event models.InvocationEvent
	if err := yaml.Unmarshal(raw, &event); err != nil {
		return nil, errors.Wrapf(err, "Fail to parse event file: %s", path)
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return &event, nil
}

func eventFlagUsage() string {
	return "invocation event file (YAML or JSON) with bucket_name, bucket_prefix, " +
		"bucket_logs_prefix, glue_table_name and log_type"
}
