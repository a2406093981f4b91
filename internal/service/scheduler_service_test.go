package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("09:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 9 * * *", spec)

	for _, bad := range []string{"", "9", "24:00", "12:60", "ab:10", "1:2:3"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}

func TestBuildIntervalSpec(t *testing.T) {
	spec, err := buildIntervalSpec(5 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "@every 18000s", spec)

	spec, err = buildIntervalSpec(time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "@every 1s", spec)

	_, err = buildIntervalSpec(0)
	assert.Error(t, err)
}

func TestScheduleSummaries(t *testing.T) {
	s := NewSchedulerService(time.UTC)
	require.NoError(t, s.ScheduleSummaries(0, "", func() {}))
	assert.False(t, s.HasJobs())

	require.NoError(t, s.ScheduleSummaries(time.Hour, "08:00", func() {}))
	assert.True(t, s.HasJobs())

	assert.Error(t, s.ScheduleSummaries(0, "25:00", func() {}))
}
