package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, "local", cfg.MediaDriver)
	assert.Equal(t, "posts_app", cfg.MediaFolder)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.NatsUrl)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("MEDIA_DRIVER", "s3")
	t.Setenv("S3_BUCKET", "blog-media")
	t.Setenv("DB_TIMEOUT", "2s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://blog.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "s3", cfg.MediaDriver)
	assert.Equal(t, "blog-media", cfg.S3Bucket)
	assert.Equal(t, 2*time.Second, cfg.DBTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://blog.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store", env: map[string]string{"STORE_DRIVER": "sqlite"}},
		{name: "unknown media", env: map[string]string{"MEDIA_DRIVER": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"MEDIA_DRIVER": "s3"}},
		{name: "zero upload limit", env: map[string]string{"MAX_UPLOAD_BYTES": "0"}},
		{name: "memory in prod", env: map[string]string{"APP_ENV": "prod", "STORE_DRIVER": "memory"}},
		{name: "unparsable upload limit", env: map[string]string{"MAX_UPLOAD_BYTES": "5MB"}},
		{name: "unparsable db timeout", env: map[string]string{"DB_TIMEOUT": "five"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_UnparsableValueNamesTheVariable(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "5MB")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_UPLOAD_BYTES")
	assert.Contains(t, err.Error(), "5MB")
}
