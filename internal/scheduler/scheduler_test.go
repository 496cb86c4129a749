package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhijat05/QuickCourt-sub001/pkg/logger"
)

func TestAddJob_Validation(t *testing.T) {
	s, err := New(time.UTC, logger.Nop())
	require.NoError(t, err)
	defer s.Stop()

	_, err = s.AddJob(" ", "* * * * *", func() {})
	assert.ErrorIs(t, err, ErrEmptyJobName)

	_, err = s.AddJob("complete-bookings", "", func() {})
	assert.ErrorIs(t, err, ErrEmptyCronExpr)

	_, err = s.AddJob("complete-bookings", "not a cron", func() {})
	assert.Error(t, err)

	job, err := s.AddJob("complete-bookings", "*/5 * * * *", func() {})
	require.NoError(t, err)
	assert.Equal(t, "complete-bookings", job.Name())
}

func TestStop_Idempotent(t *testing.T) {
	s, err := New(nil, logger.Nop())
	require.NoError(t, err)
	s.Start()

	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}
