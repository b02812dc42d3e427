package config

import "os"

type Config struct {
	LogLevel string
	Addr     string // serve mode listen address
	Style    string // stylesheet path, empty means the embedded default
}

func Load() Config {
	return Config{
		LogLevel: envStr("LOG_LEVEL", "info"),
		Addr:     envStr("COMMLOG_ADDR", ":8765"),
		Style:    envStr("COMMLOG_STYLE", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
