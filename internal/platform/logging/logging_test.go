package logging

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, log.DebugLevel, ParseLevel("debug"))
	require.Equal(t, log.WarnLevel, ParseLevel(" warn "))
	require.Equal(t, log.InfoLevel, ParseLevel("loud"))
	require.Equal(t, log.InfoLevel, ParseLevel(""))
}

func TestSetupSelectsFormatter(t *testing.T) {
	Setup("production", "error")
	_, ok := log.StandardLogger().Formatter.(*log.JSONFormatter)
	require.True(t, ok)
	require.Equal(t, log.ErrorLevel, log.GetLevel())

	Setup("development", "info")
	_, ok = log.StandardLogger().Formatter.(*log.TextFormatter)
	require.True(t, ok)
}
