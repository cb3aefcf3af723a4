// Package config loads server configuration from an optional TOML file and
// the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends for compliance records.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Server     Server      `toml:"server"`
	Log        Log         `toml:"log"`
	Database   Database    `toml:"database"`
	Redis      RedisConfig `toml:"redis"`
	Kafka      Kafka       `toml:"kafka"`
	Ledger     Ledger      `toml:"ledger"`
	Compliance Compliance  `toml:"compliance"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `toml:"addr"`
	JWTSigningKey   string        `toml:"jwt_signing_key"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type Log struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json or text
}

type Database struct {
	URL             string        `toml:"url"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// RedisConfig configures the compliance read cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `toml:"url"`
	PoolSize     int           `toml:"pool_size"`
	MinIdleConns int           `toml:"min_idle_conns"`
	DialTimeout  time.Duration `toml:"dial_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
}

// Kafka configures the audit outbox relay. No brokers disables the relay.
type Kafka struct {
	Brokers       []string      `toml:"brokers"`
	AuditTopic    string        `toml:"audit_topic"`
	SecurityTopic string        `toml:"security_topic"`
	ConsumerGroup string        `toml:"consumer_group"`
	PollInterval  time.Duration `toml:"poll_interval"`
	BatchSize     int           `toml:"batch_size"`
}

type Ledger struct {
	Digest string `toml:"digest"` // sha256 or blake2b
}

type Compliance struct {
	Store string `toml:"store"` // memory or postgres
}

// Defaults returns the development configuration.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			JWTSigningKey:   "dev-secret-key-change-in-production",
			ShutdownTimeout: 10 * time.Second,
		},
		Log:      Log{Level: "info", Format: "json"},
		Database: Database{MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     10 * time.Minute,
		},
		Kafka: Kafka{
			AuditTopic:    "nyaya.audit.compliance",
			SecurityTopic: "nyaya.audit.security",
			ConsumerGroup: "nyaya-audit-materializer",
			PollInterval:  time.Second,
			BatchSize:     100,
		},
		Ledger:     Ledger{Digest: "sha256"},
		Compliance: Compliance{Store: StoreMemory},
	}
}

// FromEnv builds a Config from defaults and environment variables so main
// stays lean.
func FromEnv() Config {
	cfg := Defaults()
	applyEnv(&cfg, os.LookupEnv)
	return cfg
}

// Load reads the TOML file at path (if any) over the defaults, applies the
// environment and validates the result.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("NYAYA_ADDR", &cfg.Server.Addr)
	str("JWT_SIGNING_KEY", &cfg.Server.JWTSigningKey)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("DATABASE_URL", &cfg.Database.URL)
	str("REDIS_URL", &cfg.Redis.URL)
	str("AUDIT_TOPIC", &cfg.Kafka.AuditTopic)
	str("LEDGER_DIGEST", &cfg.Ledger.Digest)
	str("COMPLIANCE_STORE", &cfg.Compliance.Store)

	if v, ok := lookup("KAFKA_BROKERS"); ok && strings.TrimSpace(v) != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("REDIS_CACHE_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.CacheTTL = d
		}
	}
	if v, ok := lookup("DB_MAX_OPEN_CONNS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxOpenConns = n
		}
	}
}

// Validate rejects combinations main cannot wire.
func (c Config) Validate() error {
	switch c.Compliance.Store {
	case StoreMemory:
	case StorePostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("compliance store %q requires DATABASE_URL", StorePostgres)
		}
	default:
		return fmt.Errorf("unsupported compliance store %q", c.Compliance.Store)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if len(c.Kafka.Brokers) > 0 && c.Database.URL == "" {
		return fmt.Errorf("kafka audit relay requires DATABASE_URL for the outbox")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
