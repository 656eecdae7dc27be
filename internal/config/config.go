package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string
	MediaDir string
	LogFile  string
	PageSize int // default catalog page size
}

func Load() Config {
	// Local development reads a .env file when present; deployed
	// environments rely on real env vars.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] could not load .env: %v", err)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		// sqlite file in project root; FK enforcement is per-connection
		// so it goes through the DSN, not a one-off PRAGMA
		dsn = "shopcatalog.db?_pragma=foreign_keys(1)"
	}
	media := os.Getenv("MEDIA_DIR")
	if media == "" {
		media = "./media"
	}
	logFile := os.Getenv("LOG_FILE")

	pageSize := 10
	if v := os.Getenv("PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, MediaDir: media, LogFile: logFile, PageSize: pageSize}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s PAGE_SIZE=%d", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.PageSize)
	return cfg
}
