package store

import (
	"time"

	"seqfeat/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
	// StatementTimeout caps single statements such as a large run insert; 0 is the server default
	StatementTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string // reported in clickhouse client info
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* keys.
// A backend is enabled only when its URL is set.
func FromConfig(cfg config.Conf, appName string) Config {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	ch := cfg.Prefix("SERVICE_CLICKHOUSE_")

	pgURL := pg.MayString("DBURL", "")
	chURL := ch.MayString("DBURL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        pgURL != "",
			URL:            pgURL,
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 200),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),

			StatementTimeout: pg.MayDuration("STATEMENT_TIMEOUT", 0),
		},
		CH: CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
			Role:    appName,
		},
	}
}
