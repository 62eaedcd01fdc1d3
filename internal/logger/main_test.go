package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inheritx/hr-portal/internal/logger"
)

func TestInitValidation(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     logger.Log
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     logger.Log{LogLevel: "info", AppName: "test"},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:    "missing app name",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "test"},
			wantErr: logger.ErrAppNameIsEmpty,
		},
		{
			name: "no writer enabled",
			cfg:  logger.Log{LogLevel: "", ServiceName: "test", AppName: "test"},
		},
		{
			name: "console json with caller",
			cfg: logger.Log{
				LogLevel:     "debug",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := logger.Init(tc.cfg)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestInitUnknownLevel(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}

func TestLevelWriterSplitsByLevel(t *testing.T) {
	var info, errs bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, ErrorWriter: &errs}
	l := zerolog.New(lw)

	l.Info().Msg("hello")
	l.Debug().Msg("details")
	l.Warn().Msg("careful")
	l.Error().Msg("broken")

	assert.Contains(t, info.String(), "hello")
	assert.Contains(t, info.String(), "details")
	assert.NotContains(t, info.String(), "careful")
	assert.Contains(t, errs.String(), "careful")
	assert.Contains(t, errs.String(), "broken")

	n, err := lw.WriteLevel(zerolog.Disabled, []byte("dropped"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
