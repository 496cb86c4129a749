package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "single digit hour", input: "9:05", want: "09:05"},
		{name: "postgres time", input: "22:00:00", want: "22:00"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "minutes overflow", input: "10:60", wantErr: true},
		{name: "past end of day", input: "24:01", wantErr: true},
		{name: "garbage", input: "ten", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Compare(t *testing.T) {
	nine := MustTimeString("09:00")
	ten := MustTimeString("10:00")

	assert.True(t, nine.IsBefore(ten))
	assert.False(t, ten.IsBefore(nine))
	assert.True(t, ten.IsAfter(nine))
	assert.False(t, nine.IsBefore(nine))
	assert.True(t, TimeString("9:00").Equal(nine))
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := MustTimeString("21:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("22:00"), got)

	_, err = MustTimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_HourAndWholeHour(t *testing.T) {
	assert.Equal(t, 8, MustTimeString("08:30").Hour())
	assert.False(t, MustTimeString("08:30").IsWholeHour())
	assert.True(t, MustTimeString("08:00").IsWholeHour())
	assert.Equal(t, -1, TimeString("bad").Hour())
}

func TestTimeString_On(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	loc := time.FixedZone("UTC+5", 5*3600)

	got := MustTimeString("09:30").On(date, loc)

	assert.Equal(t, time.Date(2025, 10, 15, 9, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("07:15:00")))
	assert.Equal(t, TimeString("07:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
