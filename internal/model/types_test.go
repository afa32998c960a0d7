package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "9:00", want: "09:00"},
		{in: "23:59", want: "23:59"},
		{in: "08:30:15", want: "08:30"}, // seconds dropped
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		parsed, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, parsed.String(), tc.in)
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	parsed, err := ParseTimeOfDay("7:05")
	require.NoError(t, err)

	encoded, err := parsed.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"07:05"`, string(encoded))

	var decoded TimeOfDay
	require.NoError(t, decoded.UnmarshalJSON(encoded))
	assert.Equal(t, parsed, decoded)
}
