package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix is the prefix of every environment override
const EnvPrefix = "DE"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first; a missing file is fine
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}
	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.allowedOrigins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "dailyearn.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.slowThreshold", 200)  // milliseconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 2) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("auth.issuer", "dailyearn")
	v.SetDefault("auth.accessTokenTTL", 1440) // minutes
	v.SetDefault("auth.bcryptCost", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.db", 0)

	v.SetDefault("mail.provider", "log")
	v.SetDefault("mail.fromAddress", "no-reply@dailyearn.ng")
	v.SetDefault("mail.fromName", "DailyEarn")
	v.SetDefault("mail.timeout", 10) // seconds
	v.SetDefault("mail.verifyUrl", "http://localhost:3000/verify-email")

	v.SetDefault("rateLimit.requestsPerMinute", 10)
	v.SetDefault("rateLimit.burst", 5)

	v.SetDefault("housekeeping.enabled", true)
	v.SetDefault("housekeeping.schedule", "@every 1h")
}

// getEnvironment determines the environment to use based on DE_ENV environment variable
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures environment variables override config values.
// Keys with camelCase names are not reachable through AutomaticEnv, so they are mapped here.
func processEnvOverrides(v *viper.Viper) {
	stringOverrides := map[string]string{
		"DE_DB_DRIVER":                "database.driver",
		"DE_DB_HOST":                  "database.host",
		"DE_DB_PORT":                  "database.port",
		"DE_DB_USERNAME":              "database.username",
		"DE_DB_PASSWORD":              "database.password",
		"DE_DB_NAME":                  "database.database",
		"DE_DB_PATH":                  "database.path",
		"DE_DB_SSL_MODE":              "database.sslMode",
		"DE_SERVER_HOST":              "server.host",
		"DE_LOGGER_LEVEL":             "logger.level",
		"DE_AUTH_JWT_SECRET":          "auth.jwtSecret",
		"DE_AUTH_ADMIN_USERNAME":      "auth.adminUsername",
		"DE_AUTH_ADMIN_PASSWORD_HASH": "auth.adminPasswordHash",
		"DE_REDIS_ADDR":               "redis.addr",
		"DE_REDIS_PASSWORD":           "redis.password",
		"DE_MAIL_PROVIDER":            "mail.provider",
		"DE_MAIL_SENDGRID_API_KEY":    "mail.sendgridApiKey",
		"DE_MAIL_FROM_ADDRESS":        "mail.fromAddress",
	}
	for env, key := range stringOverrides {
		if value := os.Getenv(env); value != "" {
			v.Set(key, value)
		}
	}

	intOverrides := map[string]string{
		"DE_SERVER_PORT":                   "server.port",
		"DE_DB_MAX_OPEN_CONNS":             "database.maxOpenConns",
		"DE_DB_MAX_IDLE_CONNS":             "database.maxIdleConns",
		"DE_DB_QUERY_TIMEOUT_SECONDS":      "database.queryTimeout",
		"DE_DB_RETRY_ATTEMPTS":             "database.retryAttempts",
		"DE_AUTH_ACCESS_TOKEN_TTL_MINUTES": "auth.accessTokenTTL",
		"DE_AUTH_BCRYPT_COST":              "auth.bcryptCost",
		"DE_REDIS_DB":                      "redis.db",
		"DE_RATE_LIMIT_PER_MINUTE":         "rateLimit.requestsPerMinute",
	}
	for env, key := range intOverrides {
		if value, ok := getEnvInt(env); ok {
			v.Set(key, value)
		}
	}

	if enabled, err := strconv.ParseBool(os.Getenv("DE_REDIS_ENABLED")); err == nil {
		v.Set("redis.enabled", enabled)
	}
}

// Helper function to get environment variable as int
func getEnvInt(name string) (int, bool) {
	valStr := os.Getenv(name)
	if valStr == "" {
		return 0, false
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, false
	}
	return val, true
}

// processDurations converts time.Duration fields from their raw values to actual durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.SlowThreshold = time.Duration(config.Database.SlowThreshold) * time.Millisecond
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second

	config.Auth.AccessTokenTTL = time.Duration(config.Auth.AccessTokenTTL) * time.Minute
	config.Mail.Timeout = time.Duration(config.Mail.Timeout) * time.Second
}
