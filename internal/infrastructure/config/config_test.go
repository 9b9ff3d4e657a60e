package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "viewd", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "fs", cfg.Storage.Driver)
	assert.Equal(t, "./views", cfg.Storage.Root)
	assert.Equal(t, "./manifest.json", cfg.Manifest.Path)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RenderTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
	assert.Equal(t, "viewd", cfg.Telemetry.ServiceName)
}

func TestApplyDefaults_ProductionLogFormat(t *testing.T) {
	cfg := &Config{App: AppConfig{Env: "production"}}
	applyDefaults(cfg)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "fs defaults valid",
			mutate: func(cfg *Config) {},
		},
		{
			name: "unknown driver",
			mutate: func(cfg *Config) {
				cfg.Storage.Driver = "ftp"
			},
			wantErr: "unknown storage driver",
		},
		{
			name: "s3 without bucket",
			mutate: func(cfg *Config) {
				cfg.Storage.Driver = "s3"
			},
			wantErr: "storage.bucket is required",
		},
		{
			name: "s3 without credentials",
			mutate: func(cfg *Config) {
				cfg.Storage.Driver = "s3"
				cfg.Storage.Bucket = "views"
			},
			wantErr: "access_key and storage.secret_key",
		},
		{
			name: "telemetry enabled without endpoint",
			mutate: func(cfg *Config) {
				cfg.Telemetry.Enabled = true
			},
			wantErr: "collector_endpoint is required",
		},
		{
			name: "sampling ratio out of range",
			mutate: func(cfg *Config) {
				cfg.Telemetry.SamplingRatio = 1.5
			},
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", cfg.RedisAddr())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{App: AppConfig{Env: "production"}}).IsProduction())
	assert.False(t, (&Config{App: AppConfig{Env: "development"}}).IsProduction())
}
