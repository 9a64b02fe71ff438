// Package config loads SketchBoard settings from the environment, optionally seeded from a
// .env file in the working directory.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "SKETCHBOARD_"

// Config is the application configuration.
type Config struct {
	Share  ShareConfig
	Canvas CanvasConfig
	Window WindowConfig
}

// ShareConfig configures the live review hub.
type ShareConfig struct {
	Port         int
	MDNS         bool
	WriteTimeout time.Duration
}

// CanvasConfig holds the drawing defaults.
type CanvasConfig struct {
	StrokeColor string
	StrokeWidth float64
	FontSize    float64
	SettleDelay time.Duration
}

// WindowConfig is the initial window size.
type WindowConfig struct {
	Width  float32
	Height float32
}

// Load reads the configuration. A missing .env file is not an error.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	return &Config{
		Share: ShareConfig{
			Port:         getInt("PORT", 8888),
			MDNS:         getBool("MDNS", true),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 5*time.Second),
		},
		Canvas: CanvasConfig{
			StrokeColor: getEnv("STROKE_COLOR", "#ff0000"),
			StrokeWidth: getFloat("STROKE_WIDTH", 2),
			FontSize:    getFloat("FONT_SIZE", 16),
			SettleDelay: getDuration("SETTLE_DELAY", 150*time.Millisecond),
		},
		Window: WindowConfig{
			Width:  float32(getInt("WINDOW_WIDTH", 1280)),
			Height: float32(getInt("WINDOW_HEIGHT", 860)),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(envPrefix + key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(envPrefix + key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

// getDuration accepts Go durations ("150ms"); a bare number is seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(envPrefix + key); value != "" {
		if !strings.ContainsAny(value, "smhµn") {
			if secs, err := strconv.Atoi(value); err == nil {
				return time.Duration(secs) * time.Second
			}
		}
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
