package config

import (
	"os"
	"strconv"
	"strings"

	"resume-imager/internal/shared/telemetry"
)

const defaultDiffusionModel = "stabilityai/stable-diffusion-xl-base-1.0"

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	FontPath        string
	LogLevel        string
	LogFile         string
	Diffusion       DiffusionConfig
}

// DiffusionConfig describes the text-to-image inference backend.
type DiffusionConfig struct {
	Enabled        bool
	Endpoint       string
	Model          string
	APIToken       string
	Device         string
	TimeoutSeconds int
	MaxConcurrency int
}

// Load reads configuration from environment variables with sensible defaults.
// Values from CONFIG_FILE (YAML) are used when the matching env var is unset.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	file := fileConfig{}
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		parsed, err := loadFile(path)
		if err != nil {
			telemetry.Warn("config.file_ignored", map[string]any{"path": path, "error": err})
		} else {
			file = parsed
		}
	}

	return Config{
		Port:            getEnv("PORT", firstNonEmpty(file.Port, "5000")),
		Env:             normalizeEnv(getEnv("ENV", firstNonEmpty(file.Env, "dev"))),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", firstNonEmpty(strings.Join(file.CORSAllowOrigins, ","), "*"))),
		FontPath:        getEnv("FONT_PATH", firstNonEmpty(file.FontPath, "arial.ttf")),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", firstNonEmpty(file.Log.Level, "info"))),
		LogFile:         getEnv("LOG_FILE", file.Log.File),
		Diffusion: DiffusionConfig{
			Enabled:        getEnvBool("DIFFUSION_ENABLED", boolOr(file.Diffusion.Enabled, true)),
			Endpoint:       strings.TrimRight(getEnv("DIFFUSION_ENDPOINT", file.Diffusion.Endpoint), "/"),
			Model:          getEnv("DIFFUSION_MODEL", firstNonEmpty(file.Diffusion.Model, defaultDiffusionModel)),
			APIToken:       getEnv("DIFFUSION_API_TOKEN", file.Diffusion.APIToken),
			Device:         normalizeDevice(getEnv("DIFFUSION_DEVICE", firstNonEmpty(file.Diffusion.Device, "auto"))),
			TimeoutSeconds: getEnvInt("DIFFUSION_TIMEOUT_SECONDS", intOr(file.Diffusion.TimeoutSeconds, 120)),
			MaxConcurrency: getEnvInt("DIFFUSION_MAX_CONCURRENCY", intOr(file.Diffusion.MaxConcurrency, 1)),
		},
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid_bool", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeDevice(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cuda", "gpu":
		return "cuda"
	case "cpu":
		return "cpu"
	default:
		return "auto"
	}
}
