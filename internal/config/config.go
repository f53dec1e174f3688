package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const EnvLogLevel = "PNGVIEW_LOG_LEVEL"

// Default cap on decoded pixels; a 16384x16384 image is the largest accepted.
const DefaultMaxPixels = 1 << 28

type Format string

const (
	FormatBMP Format = "bmp"
	FormatRaw Format = "raw"
)

type PngViewConfig struct {
	LogLevel  zerolog.Level
	Strict    bool
	MaxPixels int
	OutDir    string
	Format    Format
	Scale     float64
}

// Default returns the built-in settings with the environment applied.
func Default() PngViewConfig {
	cfg := PngViewConfig{
		LogLevel:  zerolog.InfoLevel,
		MaxPixels: DefaultMaxPixels,
		Format:    FormatBMP,
		Scale:     1,
	}
	if lvl, ok := os.LookupEnv(EnvLogLevel); ok {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lvl))); err == nil && parsed != zerolog.NoLevel {
			cfg.LogLevel = parsed
		}
	}
	return cfg
}

func (f Format) Valid() bool {
	return f == FormatBMP || f == FormatRaw
}

// Ext is the file extension written for the format.
func (f Format) Ext() string {
	switch f {
	case FormatRaw:
		return ".pxz"
	default:
		return ".bmp"
	}
}
