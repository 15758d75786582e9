package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	MdweaveAPIKey string

	// Where converted documents and the history database live.
	OutputDir string
	HistoryDB string

	// Directory watching
	WatchDir      string
	WatchDebounce time.Duration

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Conversion defaults; per-request options override these.
	StripNoise       bool
	HeadingPattern   string
	UseLayoutSignals bool
	Frontmatter      bool

	// PDF
	PDFFallbackPdftotext bool

	// Webhook notifications; empty URL disables them.
	WebhookURL    string
	WebhookSecret string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MdweaveAPIKey: os.Getenv("MDWEAVE_API_KEY"),

		OutputDir: envOr("OUTPUT_DIR", "converted"),
		HistoryDB: envOr("HISTORY_DB", "mdweave.db"),

		WatchDir:      os.Getenv("WATCH_DIR"),
		WatchDebounce: envDuration("WATCH_DEBOUNCE", 200*time.Millisecond),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		StripNoise:       envBool("STRIP_NOISE", true),
		HeadingPattern:   os.Getenv("HEADING_PATTERN"),
		UseLayoutSignals: envBool("USE_LAYOUT_SIGNALS", true),
		Frontmatter:      envBool("FRONTMATTER", false),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		WebhookURL:    os.Getenv("WEBHOOK_URL"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.WatchDebounce <= 0 {
		cfg.WatchDebounce = 200 * time.Millisecond
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MdweaveAPIKey == "" {
		return fmt.Errorf("MDWEAVE_API_KEY is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
