package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "10m", want: 10 * time.Minute},
		{in: "2d", want: 48 * time.Hour},
		{in: "1d12h", want: 36 * time.Hour},
		{in: " 1H30M ", want: 90 * time.Minute},
		{in: "15", want: 15 * time.Minute},
		{in: "153722867", want: 153722867 * time.Minute},
		{in: "153722868", wantErr: true},
		{in: "99999999999999999", wantErr: true},
		{in: "106752d", wantErr: true},
		{in: "106751d24h", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "1d-2h", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "3s", FormatDuration(2600*time.Millisecond))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour))
	assert.Equal(t, "1d2h0m0s", FormatDuration(26*time.Hour))
	assert.Equal(t, "less than a second", FormatDuration(100*time.Millisecond))
}
