package logger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mdmuzammil18/BayerHealthCare/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		require.NoError(t, err, format)
		require.NotNil(t, l)
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"})
	require.Error(t, err)
}
