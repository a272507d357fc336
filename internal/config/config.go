// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all service configuration.
type Config struct {
	Service       ServiceConfig
	STT           STTConfig
	TTS           TTSConfig
	Recorder      RecorderConfig
	Dialogue      DialogueConfig
	Store         StoreConfig
	Directory     DirectoryConfig
	Kafka         KafkaConfig
	Sessions      SessionConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds service identity and listener ports.
type ServiceConfig struct {
	Principal string
	GRPCPort  string
	HTTPPort  string
}

// STTConfig selects and tunes the speech-to-text backend.
type STTConfig struct {
	Provider      string // mock, google
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
	Model         string
}

// TTSConfig selects the text-to-speech backend.
type TTSConfig struct {
	Provider     string // mock
	SampleRateHz int
}

// RecorderConfig holds silence detection settings for audio capture.
type RecorderConfig struct {
	StartTimeout     time.Duration
	SilenceThreshold float64 // RMS amplitude of 16-bit samples
	SilenceDuration  time.Duration
	MaxDuration      time.Duration
}

// DialogueConfig holds conversation wording and policy.
type DialogueConfig struct {
	HospitalName          string
	Currency              string
	MaxReprompts          int
	ConfirmRecommendation bool
	NoInputLimit          int
}

// StoreConfig selects the appointment store backend.
type StoreConfig struct {
	Backend     string // memory, postgres, redis
	DatabaseURL string
	RedisAddr   string
	RedisDB     int
	KeyPrefix   string
}

// DirectoryConfig points at an optional doctor catalog file.
type DirectoryConfig struct {
	CatalogPath string
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicTurns     string
	TopicLifecycle string
}

// SessionConfig bounds server-side sessions.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// Load reads a .env file when one exists, then the environment.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-hospital-voice-agent"),
			GRPCPort:  envOrDefault("GRPC_PORT", "50051"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		STT: STTConfig{
			Provider:      envOrDefault("STT_PROVIDER", "mock"),
			LanguageCode:  envOrDefault("STT_LANGUAGE_CODE", "en-US"),
			SampleRateHz:  envInt("STT_SAMPLE_RATE_HZ", 16000),
			AudioEncoding: envOrDefault("STT_AUDIO_ENCODING", "LINEAR16"),
			Model:         envOrDefault("STT_MODEL", "phone_call"),
		},
		TTS: TTSConfig{
			Provider:     envOrDefault("TTS_PROVIDER", "mock"),
			SampleRateHz: envInt("TTS_SAMPLE_RATE_HZ", 16000),
		},
		Recorder: RecorderConfig{
			StartTimeout:     envDuration("RECORDER_START_TIMEOUT", 5000*time.Millisecond),
			SilenceThreshold: envFloat("RECORDER_SILENCE_THRESHOLD", 350.0),
			SilenceDuration:  envDuration("RECORDER_SILENCE_DURATION", 900*time.Millisecond),
			MaxDuration:      envDuration("RECORDER_MAX_DURATION", 12000*time.Millisecond),
		},
		Dialogue: DialogueConfig{
			HospitalName:          envOrDefault("HOSPITAL_NAME", "CityCare Hospital"),
			Currency:              envOrDefault("FEE_CURRENCY", "rupees"),
			MaxReprompts:          envInt("DIALOGUE_MAX_REPROMPTS", 3),
			ConfirmRecommendation: envBool("DIALOGUE_CONFIRM_RECOMMENDATION", false),
			NoInputLimit:          envInt("DIALOGUE_NO_INPUT_LIMIT", 3),
		},
		Store: StoreConfig{
			Backend:     envOrDefault("STORE_BACKEND", "memory"),
			DatabaseURL: envOrDefault("DATABASE_URL", ""),
			RedisAddr:   envOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisDB:     envInt("REDIS_DB", 0),
			KeyPrefix:   envOrDefault("REDIS_KEY_PREFIX", "hospital"),
		},
		Directory: DirectoryConfig{
			CatalogPath: envOrDefault("DIRECTORY_CATALOG_PATH", ""),
		},
		Kafka: KafkaConfig{
			Enabled:        envBool("KAFKA_ENABLED", false),
			Brokers:        envList("KAFKA_BROKERS", nil),
			TopicTurns:     envOrDefault("KAFKA_TOPIC_TURNS", "appointment.conversation.turn"),
			TopicLifecycle: envOrDefault("KAFKA_TOPIC_LIFECYCLE", "appointment.lifecycle"),
		},
		Sessions: SessionConfig{
			TTL:           envDuration("SESSION_TTL", 15*time.Minute),
			SweepInterval: envDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			LogFormat:   envOrDefault("LOG_FORMAT", "json"),
			MetricsAddr: envOrDefault("METRICS_ADDR", ":9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
