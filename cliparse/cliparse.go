package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port              int
	DatabaseURL       string
	DatabaseType      string
	AdminCode         string
	AssetsDir         string
	ReconcileSchedule string
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("evote-server", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.AssetsDir, "assets", "", "Directory for uploaded candidate photos")
	fs.StringVar(&cfg.ReconcileSchedule, "reconcile", "", "Cron schedule for the consistency sweep")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminCode, "admin-code", "", "Admin shared secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 4680 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.AdminCode == "" {
		cfg.AdminCode = os.Getenv("ADMIN_CODE")
	}
	if cfg.AdminCode == "" {
		return Config{}, errors.New("ADMIN_CODE required")
	}

	if cfg.AssetsDir == "" {
		cfg.AssetsDir = os.Getenv("ASSETS_DIR")
		if cfg.AssetsDir == "" {
			cfg.AssetsDir = "./assets"
		}
	}

	if cfg.ReconcileSchedule == "" {
		cfg.ReconcileSchedule = os.Getenv("RECONCILE_SCHEDULE")
		if cfg.ReconcileSchedule == "" {
			cfg.ReconcileSchedule = "@every 5m"
		}
	}

	return cfg, nil
}
