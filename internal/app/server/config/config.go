package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath   = "../../.env"
	SecretKey = "SecRetKey"
	EnvLocal  = "local"
	EnvDev    = "dev"
	EnvProd   = "prod"
)

type Config struct {
	Env       string
	DB        db
	Server    server
	Logger    logger
	Session   session
	Redis     redis
	Challenge challenge
}

type db struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type server struct {
	RunAddress string `env:"RUN_ADDRESS"`
}

type logger struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type session struct {
	Secret     string        `env:"SECRET"`
	AccountTTL time.Duration `env:"ACCOUNT_TOKEN_TTL_HOURS"`
	MemberTTL  time.Duration `env:"MEMBER_TOKEN_TTL_HOURS"`
}

// redis кэш рейтинга семей. Пустой Addr отключает кэш
type redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB"`
	TTL      time.Duration `env:"LEADERBOARD_CACHE_TTL_SECONDS"`
}

type challenge struct {
	HistoryPageSize int `env:"HISTORY_PAGE_SIZE"`
}

func MustLoad() *Config {
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Printf("failed to load .env: %v", err)
		}
	}

	config, err := load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return config
}

func load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("app_env", EnvLocal)
	viper.SetDefault("run_address", ":8080")
	viper.SetDefault("migrations_path", "migrations")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("account_token_ttl_hours", 24*30)
	viper.SetDefault("member_token_ttl_hours", 24*365)
	viper.SetDefault("redis_db", 0)
	viper.SetDefault("leaderboard_cache_ttl_seconds", 60)
	viper.SetDefault("history_page_size", 10)

	secret := viper.GetString("secret")
	if secret == "" {
		secret = SecretKey
	}

	config := Config{
		Env: viper.GetString("app_env"),
		DB: db{
			DatabaseURI: viper.GetString("database_uri"),
			Migrations:  viper.GetString("migrations_path"),
		},
		Server: server{RunAddress: viper.GetString("run_address")},
		Logger: logger{LogLevel: viper.GetString("log_level")},
		Session: session{
			Secret:     secret,
			AccountTTL: time.Duration(viper.GetInt("account_token_ttl_hours")) * time.Hour,
			MemberTTL:  time.Duration(viper.GetInt("member_token_ttl_hours")) * time.Hour,
		},
		Redis: redis{
			Addr:     viper.GetString("redis_addr"),
			Password: viper.GetString("redis_password"),
			DB:       viper.GetInt("redis_db"),
			TTL:      time.Duration(viper.GetInt("leaderboard_cache_ttl_seconds")) * time.Second,
		},
		Challenge: challenge{HistoryPageSize: viper.GetInt("history_page_size")},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Session.AccountTTL <= 0 || c.Session.MemberTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.Challenge.HistoryPageSize <= 0 {
		return fmt.Errorf("history_page_size must be positive")
	}
	return nil
}

// CacheEnabled настроен ли Redis
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}
