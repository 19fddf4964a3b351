package util

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpRetryTimerWaitTime(t *testing.T) {
	timer := &expRetryTimer{}

	t0 := timer.calcWaitTime()
	assert.Equal(t, time.Millisecond*515, t0)

	for i := 0; i < 5; i++ {
		timer.calcWaitTime()
	}
	t6 := timer.calcWaitTime()
	assert.Equal(t, time.Millisecond*1500, t6)

	// capped
	t7 := timer.calcWaitTime()
	assert.Equal(t, 2*time.Second, t7)
}

func TestExpRetryTimerRun(t *testing.T) {
	var waits []time.Duration
	sleep := func(d time.Duration) { waits = append(waits, d) }

	t.Run("exit by callback", func(tt *testing.T) {
		waits = nil
		timer := NewExpRetryTimerWithSleep(5, sleep)
		err := timer.Run(func(seq int) (bool, error) {
			return seq == 2, nil
		})
		require.NoError(tt, err)
		assert.Equal(tt, 2, len(waits))
	})

	t.Run("error from callback stops retry", func(tt *testing.T) {
		waits = nil
		timer := NewExpRetryTimerWithSleep(5, sleep)
		err := timer.Run(func(seq int) (bool, error) {
			return false, fmt.Errorf("broken")
		})
		require.Error(tt, err)
		assert.Equal(tt, "broken", err.Error())
		assert.Equal(tt, 0, len(waits))
	})

	t.Run("limit exceeded", func(tt *testing.T) {
		waits = nil
		calls := 0
		timer := NewExpRetryTimerWithSleep(3, sleep)
		err := timer.Run(func(seq int) (bool, error) {
			calls++
			return false, nil
		})
		assert.Equal(tt, ErrRetryLimitExceeded, err)
		assert.Equal(tt, 3, calls)
		assert.Equal(tt, 2, len(waits))
	})
}
