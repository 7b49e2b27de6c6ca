// Copyright (c) 2025 the evote-server authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4680)
  - DatabaseURL: Database connection string or SQLite file path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminCode: Admin shared secret (required)
  - AssetsDir: Directory for uploaded candidate photos (default: ./assets)
  - ReconcileSchedule: Cron expression for the consistency sweep
    (default: @every 5m)

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	ADMIN_CODE         → -admin-code
	ASSETS_DIR         → -assets
	RECONCILE_SCHEDULE → -reconcile

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_CODE must be provided
  - DATABASE_TYPE must be sqlite or postgres when set
*/
package cliparse
