package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/maintplan/internal/domain"
	"github.com/alexanderramin/maintplan/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MAINTPLAN_DB", "/tmp/plans.db")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plans.db", cfg.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)

	cal, err := cfg.WorkCalendar()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCalendar().StartMin, cal.StartMin)
	assert.Equal(t, domain.DefaultCalendar().EndMin, cal.EndMin)
	assert.Equal(t, scheduler.DefaultPolicy(), cfg.SchedulerPolicy())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
db_path: /var/lib/maintplan/plans.db
log:
  level: debug
  format: json
calendar:
  work_start: "07:00"
  work_end: "15:30"
  breaks:
    - {name: Lunch, start: "12:00", end: "12:30"}
    - {name: Tea, start: "09:30", end: "09:45"}
policy:
  spare_grace_days: 3
  block_on_services: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/maintplan/plans.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	cal, err := cfg.WorkCalendar()
	require.NoError(t, err)
	assert.Equal(t, 7*60, cal.StartMin)
	assert.Equal(t, 15*60+30, cal.EndMin)
	require.Len(t, cal.Breaks, 2)
	assert.Equal(t, "Tea", cal.Breaks[0].Name, "breaks are sorted")

	policy := cfg.SchedulerPolicy()
	assert.Equal(t, 3, policy.SpareGraceDays)
	assert.True(t, policy.BlockOnServices)
	assert.False(t, policy.BlockOnStock)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "db_path: /from/file.db\nlog:\n  level: warn\n")
	t.Setenv("MAINTPLAN_DB", "/from/env.db")
	t.Setenv("MAINTPLAN_LOG_LEVEL", "error")
	t.Setenv("MAINTPLAN_LOG_FORMAT", "text")
	t.Setenv("MAINTPLAN_SPARE_GRACE_DAYS", "0")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 0, cfg.SchedulerPolicy().SpareGraceDays)
}

func TestLoadConfig_InvalidGraceEnvIgnored(t *testing.T) {
	t.Setenv("MAINTPLAN_DB", "/tmp/x.db")
	t.Setenv("MAINTPLAN_SPARE_GRACE_DAYS", "soon")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, scheduler.DefaultSpareGraceDays, cfg.SchedulerPolicy().SpareGraceDays)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Setenv("MAINTPLAN_DB", "/tmp/x.db")

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"bad yaml", "log: [unterminated", "parsing YAML"},
		{"bad clock", "calendar:\n  work_start: \"8am\"\n", "calendar.work_start"},
		{"inverted window", "calendar:\n  work_start: \"17:00\"\n  work_end: \"08:00\"\n", "must be after work_start"},
		{"bad break", "calendar:\n  breaks:\n    - {name: x, start: \"12:00\", end: \"99:00\"}\n", "calendar.breaks[0].end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDefaultPath_Env(t *testing.T) {
	t.Setenv("MAINTPLAN_CONFIG", "/etc/maintplan.yaml")

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/maintplan.yaml", path)
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "info"}, &buf, false)
	require.NoError(t, err)
	logger.Info("plan committed", "plan", "MP-1")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "non-interactive default is json")
	assert.Equal(t, "plan committed", rec["msg"])
	assert.Equal(t, "MP-1", rec["plan"])

	buf.Reset()
	logger, err = NewLogger(LogConfig{Level: "info"}, &buf, true)
	require.NoError(t, err)
	logger.Info("plan committed", "plan", "MP-1")
	assert.True(t, strings.Contains(buf.String(), "plan=MP-1"), "interactive default is text")
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "text"}, &buf, false)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_Errors(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "loud"}, &bytes.Buffer{}, false)
	assert.Error(t, err)

	_, err = NewLogger(LogConfig{Format: "xml"}, &bytes.Buffer{}, false)
	assert.Error(t, err)
}
