package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	Store             string
	DatabaseURL       string
	ImportConcurrency int
	DefaultCollection string
}

func Load() Config {
	return Config{
		Host:              getenv("HOST", "127.0.0.1"),
		Port:              getint("PORT", 8082),
		AllowOrigins:      splitList(getenv("ALLOW_ORIGINS", "*")),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		MaxUploadMB:       getint("MAX_UPLOAD_MB", 64),
		LogFile:           os.Getenv("LOG_FILE"),
		Store:             strings.ToLower(getenv("STORE", StoreMemory)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		ImportConcurrency: getint("IMPORT_CONCURRENCY", 1),
		DefaultCollection: getenv("DEFAULT_COLLECTION", "mappings"),
	}
}

// Validate reports settings the service cannot start with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE %q (want memory or postgres)", c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	if c.ImportConcurrency < 1 {
		return fmt.Errorf("IMPORT_CONCURRENCY must be at least 1")
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func (c Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// getint falls back to def on a missing or malformed value.
func getint(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
