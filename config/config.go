// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package config reads the runtime configuration from .env files and the
// process environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Env files read by LoadEnv, later ones win.
var envFiles = []string{".env", ".env.local"}

// Config is the runtime configuration.
type Config struct {
	GoogleMapsAPIKey   string
	GCPProject         string
	MapsLanguage       string
	MapsRegion         string
	ListenAddr         string
	DBDriver           string
	DBDSN              string
	RegistryMaxRadiusM int
	HTTPTrace          bool
	LogLevel           logrus.Level
	LogFormat          string
}

// Defaults.
const (
	DefaultListenAddr = "localhost:8080"
	DefaultDBDriver   = "duckdb"
	DefaultDBDSN      = "data/donar.duckdb"
	DefaultLogFormat  = "text"
)

// LoadEnv loads environment variables from the env files that exist.
func LoadEnv(logger logrus.FieldLogger) {
	loaded := make([]string, 0, len(envFiles))

	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}

		if err := godotenv.Overload(file); err != nil {
			if logger != nil {
				logger.WithError(err).Warnf("Failed to load %s", file)
			}

			continue
		}

		loaded = append(loaded, file)
	}

	if logger == nil {
		return
	}

	if len(loaded) == 0 {
		logger.Debug("No local env files loaded; relying on process environment")
	} else {
		logger.Debugf("Loaded env files: %s", strings.Join(loaded, ", "))
	}
}

// Load reads the env files and then the environment.
func Load(logger logrus.FieldLogger) *Config {
	LoadEnv(logger)

	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() *Config {
	driver := strings.ToLower(GetEnv("DONAR_DB_DRIVER", DefaultDBDriver))
	if driver != "duckdb" && driver != "pgx" {
		driver = DefaultDBDriver
	}

	format := strings.ToLower(GetEnv("LOG_FORMAT", DefaultLogFormat))
	if format != "text" && format != "json" {
		format = DefaultLogFormat
	}

	radius := GetEnvInt("DONAR_REGISTRY_MAX_RADIUS_M", 0)
	if radius < 0 {
		radius = 0
	}

	return &Config{
		GoogleMapsAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_MAPS_API_KEY")),
		GCPProject:         GetEnv("DONAR_GCP_PROJECT", ""),
		MapsLanguage:       GetEnv("DONAR_MAPS_LANGUAGE", ""),
		MapsRegion:         strings.ToLower(GetEnv("DONAR_MAPS_REGION", "")),
		ListenAddr:         GetEnv("DONAR_LISTEN_ADDR", DefaultListenAddr),
		DBDriver:           driver,
		DBDSN:              GetEnv("DONAR_DB_DSN", DefaultDBDSN),
		RegistryMaxRadiusM: radius,
		HTTPTrace:          GetEnvBool("DONAR_HTTP_TRACE", false),
		LogLevel:           GetLogLevel(),
		LogFormat:          format,
	}
}

// GetEnv gets an environment variable with a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// GetEnvInt gets an integer environment variable with a default value.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}

// GetEnvBool gets a boolean environment variable with a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}

	return defaultValue
}

// GetLogLevel gets the log level from LOG_LEVEL.
func GetLogLevel() logrus.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
