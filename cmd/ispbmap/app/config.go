package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/openispb/ispbmap/pkg/constants"
)

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	Output  string

	// Config file
	ConfigFile string

	// Catalog configuration
	DataDir         string
	RefreshInterval time.Duration
	PIXURLTemplate  string
	STRURL          string

	// Server configuration
	Host        string
	Port        int
	PathPrefix  string
	CORSEnabled bool
	CORSOrigins []string

	// Logging configuration
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from all sources in order of precedence:
// command-line flags (handled by cobra), environment variables, .env files,
// config file (~/.ispbmap.yaml), and finally defaults.
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ISPBMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ispbmap")
		}
	}

	// Missing config file is fine, everything has a default.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		Output:  viper.GetString("output"),

		ConfigFile: viper.ConfigFileUsed(),

		DataDir:         viper.GetString("data_dir"),
		RefreshInterval: viper.GetDuration("refresh_interval"),
		PIXURLTemplate:  viper.GetString("pix_url_template"),
		STRURL:          viper.GetString("str_url"),

		Host:        viper.GetString("host"),
		Port:        viper.GetInt("port"),
		PathPrefix:  viper.GetString("path_prefix"),
		CORSEnabled: true,
		CORSOrigins: viper.GetStringSlice("cors_origins"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
	}

	if viper.IsSet("cors_enabled") {
		config.CORSEnabled = viper.GetBool("cors_enabled")
	}

	// Defaults
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.RefreshInterval == 0 {
		config.RefreshInterval = constants.DefaultRefreshInterval
	}
	if config.Host == "" {
		config.Host = constants.DefaultHost
	}
	if config.Port == 0 {
		config.Port = constants.DefaultPort
	}
	if config.PathPrefix == "" {
		config.PathPrefix = constants.DefaultPathPrefix
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
