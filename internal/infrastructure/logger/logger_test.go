package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithFormat(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		want    zerolog.Level
		wantErr bool
	}{
		{"json info", "info", "json", zerolog.InfoLevel, false},
		{"console debug", "DEBUG", "console", zerolog.DebugLevel, false},
		{"default format", "warn", "", zerolog.WarnLevel, false},
		{"bad level", "loud", "json", zerolog.NoLevel, true},
		{"bad format", "info", "xml", zerolog.NoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewWithFormat(tt.level, tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}
