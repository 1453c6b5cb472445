package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SearchModeAtlas = "atlas"
	SearchModeText  = "text"
)

// The page shows at most 10 listings and a search returns at most 20
// documents; the limits may be lowered but never raised.
const (
	MaxPageLimit   = 10
	MaxSearchLimit = 20
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port           int           `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		URI            string        `yaml:"uri"`
		DBName         string        `yaml:"dbname"`
		Collection     string        `yaml:"collection"`
		MaxPoolSize    uint64        `yaml:"max_pool_size"`
		QueryTimeout   time.Duration `yaml:"query_timeout"`
		ConnectOnStart bool          `yaml:"connect_on_start"`
		EnsureIndexes  bool          `yaml:"ensure_indexes"`
	} `yaml:"database"`
	Listings struct {
		PageLimit   int    `yaml:"page_limit"`
		SearchLimit int    `yaml:"search_limit"`
		SearchMode  string `yaml:"search_mode"`
		SearchIndex string `yaml:"search_index"`
	} `yaml:"listings"`
	Redis struct {
		Host        string `yaml:"host"`
		Port        int    `yaml:"port"`
		Password    string `yaml:"password"`
		DB          int    `yaml:"db"`
		TLSEnabled  bool   `yaml:"tls_enabled"`
		TLSCertFile string `yaml:"tls_cert_file"`
	} `yaml:"redis"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	RateLimit struct {
		RequestsPerMinute int `yaml:"requests_per_minute"`
		Burst             int `yaml:"burst"`
	} `yaml:"rate_limit"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %v", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Override with environment variables if set
func applyEnv(cfg *Config) error {
	if env := os.Getenv("ENV"); env != "" {
		cfg.Env = env
	}
	if port := os.Getenv("PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT value: %v", err)
		}
		cfg.Server.Port = portNum
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Database.URI = uri
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.Database.DBName = dbname
	}
	if coll := os.Getenv("LISTINGS_COLLECTION"); coll != "" {
		cfg.Database.Collection = coll
	}
	if eager := os.Getenv("MONGO_CONNECT_ON_START"); eager != "" {
		cfg.Database.ConnectOnStart = eager == "true"
	}
	if ensure := os.Getenv("MONGO_ENSURE_INDEXES"); ensure != "" {
		cfg.Database.EnsureIndexes = ensure == "true"
	}
	if mode := os.Getenv("SEARCH_MODE"); mode != "" {
		cfg.Listings.SearchMode = strings.ToLower(mode)
	}
	if index := os.Getenv("SEARCH_INDEX"); index != "" {
		cfg.Listings.SearchIndex = index
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT value: %v", err)
		}
		cfg.Redis.Port = portNum
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		dbNum, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB value: %v", err)
		}
		cfg.Redis.DB = dbNum
	}
	if tlsEnabled := os.Getenv("REDIS_TLS_ENABLED"); tlsEnabled != "" {
		cfg.Redis.TLSEnabled = tlsEnabled == "true"
	}
	if tlsCertFile := os.Getenv("REDIS_TLS_CERT_FILE"); tlsCertFile != "" {
		cfg.Redis.TLSCertFile = tlsCertFile
	}
	if enabled := os.Getenv("CACHE_ENABLED"); enabled != "" {
		cfg.Cache.Enabled = enabled == "true"
	}
	if ttl := os.Getenv("CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL value: %v", err)
		}
		cfg.Cache.TTL = d
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set default values
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Database.URI == "" {
		cfg.Database.URI = "mongodb://localhost:27017"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "entrepotes"
	}
	if cfg.Database.Collection == "" {
		cfg.Database.Collection = "annonces"
	}
	if cfg.Database.MaxPoolSize == 0 {
		cfg.Database.MaxPoolSize = 100
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 10 * time.Second
	}
	if cfg.Listings.PageLimit == 0 {
		cfg.Listings.PageLimit = 10
	}
	if cfg.Listings.SearchLimit == 0 {
		cfg.Listings.SearchLimit = 20
	}
	if cfg.Listings.SearchMode == "" {
		cfg.Listings.SearchMode = SearchModeAtlas
	}
	if cfg.Listings.SearchIndex == "" {
		cfg.Listings.SearchIndex = "default"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 5 * time.Minute
	}
	if cfg.RateLimit.RequestsPerMinute == 0 {
		cfg.RateLimit.RequestsPerMinute = 100
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Listings.PageLimit < 1 || c.Listings.PageLimit > MaxPageLimit {
		return fmt.Errorf("listings page_limit must be between 1 and %d", MaxPageLimit)
	}
	if c.Listings.SearchLimit < 1 || c.Listings.SearchLimit > MaxSearchLimit {
		return fmt.Errorf("listings search_limit must be between 1 and %d", MaxSearchLimit)
	}
	switch c.Listings.SearchMode {
	case SearchModeAtlas, SearchModeText:
	default:
		return fmt.Errorf("unknown search mode %q (want %q or %q)", c.Listings.SearchMode, SearchModeAtlas, SearchModeText)
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT must be between 1 and 65535")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("REDIS_DB must be non-negative")
	}
	if c.Redis.TLSEnabled && c.Redis.TLSCertFile != "" {
		if _, err := os.Stat(c.Redis.TLSCertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file does not exist: %s", c.Redis.TLSCertFile)
		}
	}
	return nil
}
