package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{"TELEGRAM_TOKEN", "TELEGRAM_OWNER_ID", "STORAGE_URL", "REPORT_INTERVAL_HOURS", "REPORT_TIME"} {
		t.Setenv(key, values[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"TELEGRAM_TOKEN": "token"})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, "tasklist.db", cfg.StorageURL)
	assert.Zero(t, cfg.OwnerID)
	assert.Zero(t, cfg.ReportInterval)
	assert.Empty(t, cfg.ReportTime)
}

func TestLoad_AllValues(t *testing.T) {
	setEnv(t, map[string]string{
		"TELEGRAM_TOKEN":        " token ",
		"TELEGRAM_OWNER_ID":     "12345",
		"STORAGE_URL":           "redis://localhost:6379/0",
		"REPORT_INTERVAL_HOURS": "6",
		"REPORT_TIME":           "09:30",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "token", cfg.TelegramToken)
	assert.Equal(t, int64(12345), cfg.OwnerID)
	assert.Equal(t, "redis://localhost:6379/0", cfg.StorageURL)
	assert.Equal(t, 6*time.Hour, cfg.ReportInterval)
	assert.Equal(t, "09:30", cfg.ReportTime)
}

func TestLoad_Errors(t *testing.T) {

	setEnv(t, map[string]string{})
	_, err := Load()
	assert.Error(t, err)

	setEnv(t, map[string]string{"TELEGRAM_TOKEN": "token", "TELEGRAM_OWNER_ID": "me"})
	_, err = Load()
	assert.Error(t, err)
}

func TestParseInterval(t *testing.T) {
	assert.Equal(t, time.Duration(0), parseInterval(""))
	assert.Equal(t, time.Duration(0), parseInterval("-2"))
	assert.Equal(t, time.Duration(0), parseInterval("abc"))
	assert.Equal(t, 90*time.Minute, parseInterval("1.5"))
}
