// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"GOOGLE_MAPS_API_KEY", "DONAR_GCP_PROJECT", "DONAR_MAPS_LANGUAGE", "DONAR_MAPS_REGION", "DONAR_LISTEN_ADDR",
		"DONAR_DB_DRIVER", "DONAR_DB_DSN", "DONAR_REGISTRY_MAX_RADIUS_M", "DONAR_HTTP_TRACE",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("FOO", "")
	assert.Equal(t, "bar", GetEnv("FOO", "bar"))

	t.Setenv("FOO", "baz")
	assert.Equal(t, "baz", GetEnv("FOO", "bar"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("NUM", "")
	assert.Equal(t, 42, GetEnvInt("NUM", 42))

	t.Setenv("NUM", "100")
	assert.Equal(t, 100, GetEnvInt("NUM", 42))

	t.Setenv("NUM", "notint")
	assert.Equal(t, 7, GetEnvInt("NUM", 7), "parse errors fall back to the default")
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("FLAG", "")
	assert.True(t, GetEnvBool("FLAG", true))

	t.Setenv("FLAG", "false")
	assert.False(t, GetEnvBool("FLAG", true))

	t.Setenv("FLAG", "maybe")
	assert.True(t, GetEnvBool("FLAG", true))
}

func TestGetLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug": logrus.DebugLevel,
		"WARN":  logrus.WarnLevel,
		"error": logrus.ErrorLevel,
		"":      logrus.InfoLevel,
		"loud":  logrus.InfoLevel,
	}

	for value, want := range tests {
		t.Setenv("LOG_LEVEL", value)
		assert.Equal(t, want, GetLogLevel(), value)
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()

	assert.Equal(t, &Config{
		ListenAddr: DefaultListenAddr,
		DBDriver:   DefaultDBDriver,
		DBDSN:      DefaultDBDSN,
		LogLevel:   logrus.InfoLevel,
		LogFormat:  DefaultLogFormat,
	}, cfg)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_MAPS_API_KEY", " secret ")
	t.Setenv("DONAR_LISTEN_ADDR", ":9090")
	t.Setenv("DONAR_DB_DRIVER", "PGX")
	t.Setenv("DONAR_DB_DSN", "postgres://donar@localhost/donar")
	t.Setenv("DONAR_REGISTRY_MAX_RADIUS_M", "25000")
	t.Setenv("DONAR_HTTP_TRACE", "true")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("DONAR_MAPS_LANGUAGE", "es")
	t.Setenv("DONAR_MAPS_REGION", "UY")

	cfg := FromEnv()

	assert.Equal(t, "secret", cfg.GoogleMapsAPIKey)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "postgres://donar@localhost/donar", cfg.DBDSN)
	assert.Equal(t, 25000, cfg.RegistryMaxRadiusM)
	assert.True(t, cfg.HTTPTrace)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "es", cfg.MapsLanguage)
	assert.Equal(t, "uy", cfg.MapsRegion)
}

func TestFromEnvInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("DONAR_DB_DRIVER", "sqlite")
	t.Setenv("DONAR_REGISTRY_MAX_RADIUS_M", "-5")
	t.Setenv("LOG_FORMAT", "xml")

	cfg := FromEnv()

	assert.Equal(t, DefaultDBDriver, cfg.DBDriver)
	assert.Zero(t, cfg.RegistryMaxRadiusM)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
}

func TestLoadReadsEnvFiles(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DONAR_LISTEN_ADDR=:7000\nDONAR_DB_DSN=base.duckdb\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DONAR_DB_DSN=local.duckdb\n"), 0o600))

	cfg := Load(nil)

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, "local.duckdb", cfg.DBDSN)
}
