package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Server captures process level configuration.
type Server struct {
	Addr           string        `yaml:"addr"`
	Environment    string        `yaml:"environment"`
	LogLevel       string        `yaml:"log_level"`
	JWTSigningKey  string        `yaml:"jwt_signing_key"`
	JWTIssuer      string        `yaml:"jwt_issuer"`
	JWTAudience    string        `yaml:"jwt_audience"`
	AdminToken     string        `yaml:"admin_token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// TrustedProxies is a comma separated CIDR list allowed to set X-Forwarded-For.
	TrustedProxies string        `yaml:"trusted_proxies"`

	Grants   GrantsConfig   `yaml:"grants"`
	Audit    AuditConfig    `yaml:"audit"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Identity IdentityConfig `yaml:"identity"`
}

// GrantsConfig tunes the grant engine and the expiry sweeper.
type GrantsConfig struct {
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	EmergencyDuration time.Duration `yaml:"emergency_duration"`
	// ExpirePending also sweeps stale PENDING requests to EXPIRED.
	ExpirePending     bool          `yaml:"expire_pending"`
}

type AuditConfig struct {
	// Buffer > 0 switches the publisher to async mode with that queue size.
	Buffer int `yaml:"buffer"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type KafkaConfig struct {
	Brokers    string `yaml:"brokers"`
	AuditTopic string `yaml:"audit_topic"`
}

// IdentityConfig selects the patient directory. With a RemoteURL set the
// directory is queried over HTTP; otherwise the database or seeded memory is used.
type IdentityConfig struct {
	RemoteURL string        `yaml:"remote_url"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	Seed      bool          `yaml:"seed"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Server {
	return Server{
		Addr:           ":8080",
		Environment:    "dev",
		LogLevel:       "info",
		JWTSigningKey:  "dev-secret-key-change-in-production",
		JWTIssuer:      "http://localhost:8080",
		JWTAudience:    "healthbridge",
		RequestTimeout: 30 * time.Second,
		Grants: GrantsConfig{
			SweepInterval:     5 * time.Minute,
			EmergencyDuration: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			AuditTopic: "healthbridge.audit.entries",
		},
		Identity: IdentityConfig{
			CacheTTL: 5 * time.Minute,
			Seed:     true,
		},
	}
}

// FromEnv builds a Server config so main stays lean. Values come from the
// defaults, then the YAML file named by HEALTHBRIDGE_CONFIG, then the environment.
func FromEnv() (Server, error) {
	return Load(os.Getenv("HEALTHBRIDGE_CONFIG"), os.Getenv)
}

// Load applies file (when non-empty) and then the variables returned by getenv.
func Load(file string, getenv func(string) string) (Server, error) {
	cfg := Defaults()
	if file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return Server{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Server{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	env := envReader{getenv: getenv}
	env.str("HEALTHBRIDGE_ADDR", &cfg.Addr)
	env.str("HEALTHBRIDGE_ENV", &cfg.Environment)
	env.str("LOG_LEVEL", &cfg.LogLevel)
	env.str("JWT_SIGNING_KEY", &cfg.JWTSigningKey)
	env.str("JWT_ISSUER", &cfg.JWTIssuer)
	env.str("JWT_AUDIENCE", &cfg.JWTAudience)
	env.str("ADMIN_API_TOKEN", &cfg.AdminToken)
	env.duration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	env.str("TRUSTED_PROXIES", &cfg.TrustedProxies)

	env.duration("SWEEP_INTERVAL", &cfg.Grants.SweepInterval)
	env.duration("EMERGENCY_DURATION", &cfg.Grants.EmergencyDuration)
	env.boolean("EXPIRE_PENDING", &cfg.Grants.ExpirePending)
	env.integer("AUDIT_BUFFER", &cfg.Audit.Buffer)

	env.str("DATABASE_URL", &cfg.Database.URL)
	env.integer("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)
	env.integer("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns)
	env.duration("DB_CONN_MAX_LIFETIME", &cfg.Database.ConnMaxLifetime)
	env.boolean("DB_AUTO_MIGRATE", &cfg.Database.AutoMigrate)

	env.str("REDIS_URL", &cfg.Redis.URL)
	env.integer("REDIS_POOL_SIZE", &cfg.Redis.PoolSize)

	env.str("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	env.str("KAFKA_AUDIT_TOPIC", &cfg.Kafka.AuditTopic)

	env.str("IDENTITY_REMOTE_URL", &cfg.Identity.RemoteURL)
	env.duration("IDENTITY_CACHE_TTL", &cfg.Identity.CacheTTL)
	env.boolean("IDENTITY_SEED", &cfg.Identity.Seed)

	if env.err != nil {
		return Server{}, env.err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the process cannot run with.
func (c Server) Validate() error {
	if c.Grants.SweepInterval <= 0 {
		return fmt.Errorf("sweep interval must be positive")
	}
	if c.Grants.EmergencyDuration <= 0 {
		return fmt.Errorf("emergency duration must be positive")
	}
	if c.Environment == "production" && c.JWTSigningKey == Defaults().JWTSigningKey {
		return fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}
	return nil
}

// envReader keeps the first parse error so FromEnv reports a bad variable
// instead of silently falling back to the default.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key string, dst *string) {
	if v := e.getenv(key); v != "" {
		*dst = v
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v := e.getenv(key)
	if v == "" || e.err != nil {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = d
}

func (e *envReader) integer(key string, dst *int) {
	v := e.getenv(key)
	if v == "" || e.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = n
}

func (e *envReader) boolean(key string, dst *bool) {
	v := e.getenv(key)
	if v == "" || e.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.err = fmt.Errorf("%s: %w", key, err)
		return
	}
	*dst = b
}
