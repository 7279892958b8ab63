package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Presence PresenceConfig `mapstructure:"presence"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Limits   LimitsConfig   `mapstructure:"limits"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id"`
	Topics          []string `mapstructure:"topics"`
}

// PresenceConfig controls the online-users feature. Enabled false makes
// "presence disabled" an explicit state instead of a silently-empty list.
type PresenceConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	ExcludeRoles []string `mapstructure:"exclude_roles"`
	ExcludeKiosk bool     `mapstructure:"exclude_kiosk"`
}

// BatchConfig controls the scheduled reminder run. The cadence here only
// drives the in-process ticker in main; any external scheduler can invoke
// the same entry point instead.
type BatchConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	IntervalHours int    `mapstructure:"interval_hours"`
	Category      string `mapstructure:"category"`
}

type LimitsConfig struct {
	EmitMaxBytes  int64 `mapstructure:"emit_max_bytes"`
	PollPageSize  int   `mapstructure:"poll_page_size"`
	SendBufferLen int   `mapstructure:"send_buffer_len"`
}

// Load reads configuration from environment variables and config files.
// Environment variables override file values. Prefix: ARDA_RT_
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "8092")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "arda_portal")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group_id", "arda-realtime-group")
	v.SetDefault("kafka.topics", []string{"booking-events", "shop-events", "form-events", "chat-events", "notify-commands"})
	v.SetDefault("presence.enabled", true)
	v.SetDefault("presence.exclude_roles", []string{"service", "system"})
	v.SetDefault("presence.exclude_kiosk", true)
	v.SetDefault("batch.enabled", true)
	v.SetDefault("batch.interval_hours", 24)
	v.SetDefault("batch.category", "daily-reminder")
	v.SetDefault("limits.emit_max_bytes", 65536)
	v.SetDefault("limits.poll_page_size", 50)
	v.SetDefault("limits.send_buffer_len", 32)

	// Environment variables (e.g. DATABASE_HOST -> database.host)
	v.SetEnvPrefix("ARDA_RT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support simple env vars without prefix for Docker Compose convenience
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("server.port", "PORT")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}
