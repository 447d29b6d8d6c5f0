// Package config reads the settings of the svgpng command from
// the environment, optionally seeded by a .env file.
package config

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/benoitkugler/svgpng/history"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/joho/godotenv"
)

// EnvFile is the optional file loaded by LoadEnvironment.
const EnvFile = ".env"

type Config struct {
	History     history.Options
	Quality     svgraster.Quality
	Lock        bool
	LogLevel    string
	MaxPixels   int
	Compression png.CompressionLevel
}

// LoadEnvironment loads `path` (EnvFile when empty) into the environment.
// A missing file is not an error; variables already set take precedence.
func LoadEnvironment(path string) error {
	if path == "" {
		path = EnvFile
	}
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the SVGPNG_* variables.
func LoadConfig() (*Config, error) {
	compression, err := parseCompression(os.Getenv("SVGPNG_COMPRESSION"))
	if err != nil {
		return nil, err
	}
	quality, err := parseFloatWithDefault("SVGPNG_QUALITY", float64(svgraster.MaxQuality))
	if err != nil {
		return nil, err
	}
	maxPixels, err := parseIntWithDefault("SVGPNG_MAX_PIXELS", svgraster.DefaultMaxPixels)
	if err != nil {
		return nil, err
	}
	return &Config{
		History: history.Options{
			Backend:     history.Backend(strings.ToLower(os.Getenv("SVGPNG_HISTORY"))),
			Path:        os.Getenv("SVGPNG_HISTORY_PATH"),
			RedisURL:    os.Getenv("SVGPNG_REDIS_URL"),
			RedisPrefix: os.Getenv("SVGPNG_REDIS_PREFIX"),
		},
		Quality:     svgraster.ClampQuality(quality),
		Lock:        parseBool(os.Getenv("SVGPNG_LOCK"), true),
		LogLevel:    os.Getenv("SVGPNG_LOG_LEVEL"),
		MaxPixels:   maxPixels,
		Compression: compression,
	}, nil
}

func parseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1"
}

func parseIntWithDefault(name string, defaultValue int) (int, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, value)
	}
	return parsed, nil
}

func parseFloatWithDefault(name string, defaultValue float64) (float64, error) {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, value)
	}
	return parsed, nil
}

func parseCompression(value string) (png.CompressionLevel, error) {
	switch strings.ToLower(value) {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("invalid SVGPNG_COMPRESSION: %q", value)
	}
}
