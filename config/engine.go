package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Engine holds the interview-engine runtime settings. Everything is env-driven
// so the same binary runs locally and in the cluster.
type Engine struct {
	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey string
	OpenAIModel  string

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	GCSBucket string

	WSAllowedOrigins []string

	MinQuestions   int
	MaxQuestions   int
	AttemptTimeout time.Duration
}

func LoadEngine() Engine {
	return Engine{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  os.Getenv("GEMINI_MODEL"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  os.Getenv("OPENAI_MODEL"),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  envOr("VERTEX_LOCATION", "us-central1"),
		VertexModel:     envOr("VERTEX_MODEL", "gemini-2.0-flash"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		WSAllowedOrigins: envList("WS_ALLOWED_ORIGINS"),

		MinQuestions:   envInt("INTERVIEW_MIN_QUESTIONS", 5),
		MaxQuestions:   envInt("INTERVIEW_MAX_QUESTIONS", 8),
		AttemptTimeout: envDuration("LLM_ATTEMPT_TIMEOUT", 25*time.Second),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envList splits a comma-separated env value, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
