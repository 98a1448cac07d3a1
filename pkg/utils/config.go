package utils

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	HTTPAddr   string
	TCPAddr    string
	UDPAddr    string
	SyncSecret string
	Reviewers  []string
}

// LoadServerConfig reads configuration from the environment, after a
// best-effort .env load. SyncSecret empty means the sync route is open.
func LoadServerConfig() ServerConfig {
	_ = godotenv.Load()

	cfg := ServerConfig{
		HTTPAddr:   envOr("COVERHUB_HTTP_ADDR", ":8080"),
		TCPAddr:    envOr("COVERHUB_TCP_ADDR", ":7070"),
		UDPAddr:    envOr("COVERHUB_UDP_ADDR", ":9090"),
		SyncSecret: os.Getenv("COVERHUB_SYNC_SECRET"),
	}

	for _, name := range strings.Split(os.Getenv("COVERHUB_REVIEWERS"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			cfg.Reviewers = append(cfg.Reviewers, name)
		}
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
