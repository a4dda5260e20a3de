package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultLogLevel      = "info"
	defaultEnv           = "local"
	defaultConfigDir     = ".gfit"
	defaultMQTTTopic     = "gfit/steps/+"
)

type Config struct {
	Env            string `mapstructure:"app_env"`
	ServerAddress  string `mapstructure:"server_address"`
	EnableTLS      bool   `mapstructure:"enable_tls"`
	LogLevel       string `mapstructure:"log_level"`
	ConfigDir      string `mapstructure:"config_dir"`
	CredentialPath string `mapstructure:"credential_path"`
	DataPath       string `mapstructure:"data_path"`

	SyncInterval    time.Duration `mapstructure:"sync_interval_seconds"`
	SyncThreshold   int           `mapstructure:"sync_threshold"`
	SyncDebounce    time.Duration `mapstructure:"sync_debounce_ms"`
	InitPushDelay   time.Duration `mapstructure:"init_push_delay_ms"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout_seconds"`
	DailyGoal       int           `mapstructure:"daily_goal"`
	HistoryPageSize int           `mapstructure:"history_page_size"`

	MQTT MQTTConfig
}

// MQTTConfig мост шагомера. Пустой Broker означает ручной ввод шагов
type MQTTConfig struct {
	Broker   string `mapstructure:"mqtt_broker"`
	ClientID string `mapstructure:"mqtt_client_id"`
	Topic    string `mapstructure:"mqtt_topic"`
	Username string `mapstructure:"mqtt_username"`
	Password string `mapstructure:"mqtt_password"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad() *Config {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		envPath = "../.env"
	}

	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	config, err := load()
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	return config
}

func load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("APP_ENV", defaultEnv)
	viper.SetDefault("SERVER_ADDRESS", defaultServerAddress)
	viper.SetDefault("ENABLE_TLS", false)
	viper.SetDefault("LOG_LEVEL", defaultLogLevel)
	viper.SetDefault("CONFIG_DIR", defaultConfigDir)
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 300)
	viper.SetDefault("SYNC_THRESHOLD", 50)
	viper.SetDefault("SYNC_DEBOUNCE_MS", 1000)
	viper.SetDefault("INIT_PUSH_DELAY_MS", 1500)
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("DAILY_GOAL", 10000)
	viper.SetDefault("HISTORY_PAGE_SIZE", 10)
	viper.SetDefault("MQTT_TOPIC", defaultMQTTTopic)

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	config := &Config{
		Env:             viper.GetString("APP_ENV"),
		ServerAddress:   viper.GetString("SERVER_ADDRESS"),
		EnableTLS:       viper.GetBool("ENABLE_TLS"),
		LogLevel:        viper.GetString("LOG_LEVEL"),
		ConfigDir:       configDir,
		CredentialPath:  filepath.Join(configDir, "credentials.json"),
		DataPath:        filepath.Join(configDir, "gfit.db"),
		SyncInterval:    time.Duration(viper.GetInt("SYNC_INTERVAL_SECONDS")) * time.Second,
		SyncThreshold:   viper.GetInt("SYNC_THRESHOLD"),
		SyncDebounce:    time.Duration(viper.GetInt("SYNC_DEBOUNCE_MS")) * time.Millisecond,
		InitPushDelay:   time.Duration(viper.GetInt("INIT_PUSH_DELAY_MS")) * time.Millisecond,
		RequestTimeout:  time.Duration(viper.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
		DailyGoal:       viper.GetInt("DAILY_GOAL"),
		HistoryPageSize: viper.GetInt("HISTORY_PAGE_SIZE"),
		MQTT: MQTTConfig{
			Broker:   viper.GetString("MQTT_BROKER"),
			ClientID: viper.GetString("MQTT_CLIENT_ID"),
			Topic:    viper.GetString("MQTT_TOPIC"),
			Username: viper.GetString("MQTT_USERNAME"),
			Password: viper.GetString("MQTT_PASSWORD"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server_address не может быть пустым")
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync_interval_seconds должен быть положительным")
	}
	if c.SyncThreshold < 0 {
		return fmt.Errorf("sync_threshold не может быть отрицательным")
	}
	if c.DailyGoal <= 0 {
		return fmt.Errorf("daily_goal должен быть положительным")
	}
	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("history_page_size должен быть положительным")
	}
	return nil
}

// BaseURL адрес API с учетом TLS
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}

// SensorEnabled настроен ли мост шагомера
func (c *Config) SensorEnabled() bool {
	return c.MQTT.Broker != ""
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == "local" || c.Env == ""
}
