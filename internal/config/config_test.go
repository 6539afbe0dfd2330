package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"database_url": "postgres://localhost/talentflow",
		"data_file": "board.db",
		"min_latency_ms": 10,
		"max_latency_ms": 50,
		"failure_rate": 0,
		"seed": 42,
		"retries": 3,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "postgres://localhost/talentflow", cfg.DatabaseURL)
	assert.Equal(t, "board.db", cfg.DataFile)
	assert.Equal(t, ptr(10), cfg.MinLatencyMS)
	assert.Equal(t, ptr(50), cfg.MaxLatencyMS)
	require.NotNil(t, cfg.FailureRate)
	assert.Equal(t, 0.0, *cfg.FailureRate)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 3, cfg.Retries)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "zero latency", cfg: Config{MinLatencyMS: ptr(0), MaxLatencyMS: ptr(0)}},
		{name: "negative min", cfg: Config{MinLatencyMS: ptr(-1)}, wantErr: "'min_latency_ms' must be non-negative"},
		{name: "negative max", cfg: Config{MaxLatencyMS: ptr(-1)}, wantErr: "'max_latency_ms' must be non-negative"},
		{name: "max below min", cfg: Config{MinLatencyMS: ptr(100), MaxLatencyMS: ptr(50)}, wantErr: "must not be less than"},
		{name: "zero max below min", cfg: Config{MinLatencyMS: ptr(100), MaxLatencyMS: ptr(0)}, wantErr: "must not be less than"},
		{name: "rate above one", cfg: Config{FailureRate: ptr(1.5)}, wantErr: "'failure_rate' must be between 0 and 1"},
		{name: "negative rate", cfg: Config{FailureRate: ptr(-0.1)}, wantErr: "'failure_rate' must be between 0 and 1"},
		{name: "negative retries", cfg: Config{Retries: -2}, wantErr: "'retries' must be non-negative"},
		{name: "missing data dir", cfg: Config{DataFile: "/nonexistent/dir/board.db"}, wantErr: "data file directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		DataFile: "mine.db",
		Retries:  2,
	}

	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "mine.db", merged.DataFile)
	assert.Equal(t, 2, merged.Retries)
	assert.Equal(t, ptr(200), merged.MinLatencyMS)
	assert.Equal(t, ptr(1200), merged.MaxLatencyMS)
	require.NotNil(t, merged.FailureRate)
	assert.Equal(t, 0.08, *merged.FailureRate)

	// the receiver is left untouched
	assert.Nil(t, cfg.FailureRate)
}

func TestMergeWithDefaults_ExplicitZeroRateWins(t *testing.T) {
	cfg := &Config{FailureRate: ptr(0.0)}
	merged := cfg.MergeWithDefaults(Defaults())
	assert.Equal(t, 0.0, *merged.FailureRate)
	assert.Equal(t, DefaultDataFile, merged.DataFile)
}

func TestMergeWithDefaults_ExplicitZeroLatencyWins(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(`{"min_latency_ms": 0, "max_latency_ms": 0}`), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	merged := cfg.MergeWithDefaults(Defaults())
	require.NoError(t, merged.Validate())

	assert.Equal(t, ptr(0), merged.MinLatencyMS)
	assert.Equal(t, ptr(0), merged.MaxLatencyMS)

	pc := merged.PolicyConfig()
	assert.Zero(t, pc.MinLatency)
	assert.Zero(t, pc.MaxLatency)
}

func TestMergeWithDefaults_CopiesPointers(t *testing.T) {
	defaults := Defaults()
	merged := (&Config{}).MergeWithDefaults(defaults)

	*merged.MinLatencyMS = 1
	assert.Equal(t, ptr(200), defaults.MinLatencyMS)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "postgres://env/db")
	t.Setenv(EnvDataFile, "env.db")
	t.Setenv(EnvFailureRate, "0.25")

	cfg := Config{DatabaseURL: "postgres://file/db"}
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "env.db", cfg.DataFile)
	assert.Equal(t, 0.25, *cfg.FailureRate)
}

func TestApplyEnv_Unset(t *testing.T) {
	t.Setenv(EnvDatabaseURL, "")
	t.Setenv(EnvDataFile, "")
	t.Setenv(EnvFailureRate, "")

	cfg := Config{DataFile: "keep.db"}
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "keep.db", cfg.DataFile)
	assert.Nil(t, cfg.FailureRate)
}

func TestApplyEnv_BadRate(t *testing.T) {
	t.Setenv(EnvFailureRate, "often")

	cfg := Config{}
	err := cfg.ApplyEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvFailureRate)
}

func TestPolicyConfig(t *testing.T) {
	cfg := Config{MinLatencyMS: ptr(5), MaxLatencyMS: ptr(15), FailureRate: ptr(0.5), Seed: 7}
	pc := cfg.PolicyConfig()

	assert.Equal(t, 5*time.Millisecond, pc.MinLatency)
	assert.Equal(t, 15*time.Millisecond, pc.MaxLatency)
	assert.Equal(t, 0.5, pc.FailureRate)
	assert.Equal(t, uint64(7), pc.Seed)

	empty := (&Config{}).PolicyConfig()
	assert.Zero(t, empty.FailureRate)
	assert.Zero(t, empty.MinLatency)
}
