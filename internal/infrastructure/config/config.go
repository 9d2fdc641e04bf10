package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service and the terminal client.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Client   ClientConfig   `mapstructure:"client"`
	Audio    AudioConfig    `mapstructure:"audio"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	GRPCPort  int    `mapstructure:"grpc_port"`
	HTTPPort  int    `mapstructure:"http_port"`
	APIPrefix string `mapstructure:"api_prefix"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig configures word enrichment.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"`
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	AzureEndpoint   string        `mapstructure:"azure_endpoint"`
	AzureAPIVersion string        `mapstructure:"azure_api_version"`
	AzureDeployment string        `mapstructure:"azure_deployment"`
	Attempts        int           `mapstructure:"attempts"`
	RetryWait       time.Duration `mapstructure:"retry_wait"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	APIBaseURL  string        `mapstructure:"api_base_url"`
	Language    string        `mapstructure:"language"`
	ReviewLimit int           `mapstructure:"review_limit"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LogFile     string        `mapstructure:"log_file"`
}

// AudioConfig configures pronunciation playback.
type AudioConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	URLTemplate string `mapstructure:"url_template"`
	Player      string `mapstructure:"player"`
	CacheDir    string `mapstructure:"cache_dir"`
}

// Load reads configuration from file and environment variables.
// An empty configFile searches .env in . and ./config.
func Load(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	setDefaults()

	viper.SetEnvPrefix("NEKO")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.grpc_port", 9092)
	viper.SetDefault("server.http_port", 8002)
	viper.SetDefault("server.api_prefix", "/api/v1")

	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.path", "./data/nekowords.db")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "nekowords")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.log_sql", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.azure_api_version", "2024-06-01")
	viper.SetDefault("llm.attempts", 3)
	viper.SetDefault("llm.retry_wait", 2*time.Second)
	viper.SetDefault("llm.timeout", 60*time.Second)

	viper.SetDefault("client.api_base_url", "http://localhost:8002/api/v1")
	viper.SetDefault("client.language", "en")
	viper.SetDefault("client.review_limit", 20)
	viper.SetDefault("client.timeout", 10*time.Second)
	viper.SetDefault("client.log_file", "")

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.url_template", "https://dict.youdao.com/dictvoice?type=0&audio={word}")
	viper.SetDefault("audio.player", "mpg123 -q")
	viper.SetDefault("audio.cache_dir", filepath.Join(".", "data", "audio"))
}

// DatabaseDriver returns the normalized driver name.
func (c *Config) DatabaseDriver() (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres", "postgresql", "pgx":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the DSN for the configured driver.
func (c *Config) DatabaseURL() (string, error) {
	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}
	if driver == "sqlite3" {
		path := c.Database.Path
		if path == "" {
			return "", fmt.Errorf("database.path is required for sqlite")
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path), nil
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String(), nil
}

// GRPCAddr returns the gRPC listen address.
func (c *Config) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// HTTPAddr returns the REST listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}
