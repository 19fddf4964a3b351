package internal_test

import (
	"testing"

	"github.com/m-mizutani/athena-partitioner/internal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	defer internal.Logger.SetLevel(logrus.InfoLevel)

	internal.SetLogLevel("DEBUG")
	assert.Equal(t, logrus.DebugLevel, internal.Logger.GetLevel())

	internal.SetLogLevel("ERROR")
	assert.Equal(t, logrus.ErrorLevel, internal.Logger.GetLevel())

	t.Run("unknown level does not change current level", func(tt *testing.T) {
		internal.SetLogLevel("VERBOSE")
		assert.Equal(tt, logrus.ErrorLevel, internal.Logger.GetLevel())
	})
}

func TestInitErrorHandlerWithoutDSN(t *testing.T) {
	assert.NoError(t, internal.InitErrorHandler("", "test"))
	// No panic without sentry
	internal.FlushError()
}
