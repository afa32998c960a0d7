package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDailyRejectsBadTime(t *testing.T) {
	s := NewScheduler(time.UTC)
	_, err := s.ScheduleDaily("25:00", func() {})
	assert.Error(t, err)
	_, err = s.ScheduleDaily("nightly", func() {})
	assert.Error(t, err)
}

func TestScheduleDailyAcceptsUnpaddedTime(t *testing.T) {
	s := NewScheduler(time.UTC)
	_, err := s.ScheduleDaily("3:30", func() {})
	assert.NoError(t, err)
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	s := NewScheduler(time.UTC)
	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(-time.Minute, func() {})
	assert.Error(t, err)
}

func TestScheduleIntervalRuns(t *testing.T) {
	s := NewScheduler(time.UTC)
	var runs atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() { runs.Add(1) })
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	deadline := time.After(3 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("interval job never ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
