package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

const defaultMMKPerCredit = "100"

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	RedisAddr     string `env:"REDIS_ADDR"`
	JWTUserSecret string `env:"JWT_USER_SECRET"`
	// MMKPerCredit курс конвертации: сколько MMK стоит один кредит.
	MMKPerCredit string `env:"MMK_PER_CREDIT"`
}

func LoadConfig() (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	loadFlags(&flagsConfig)

	conf := mergeConfig(&envConfig, &flagsConfig)
	if conf.JWTUserSecret == "" {
		return nil, errors.New("jwt user secret is not set")
	}
	if _, rateErr := conf.MMKPerCreditRate(); rateErr != nil {
		return nil, rateErr
	}
	// Пустой DSN не ошибка: приложение поднимется на хранилище в памяти.
	return conf, nil
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

// MMKPerCreditRate возвращает курс MMK за кредит как decimal.
func (c *Config) MMKPerCreditRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.MMKPerCredit)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse MMK per credit rate: %s", err.Error())
	}
	if !rate.IsPositive() {
		return decimal.Zero, errors.New("MMK per credit rate must be positive")
	}
	return rate, nil
}

func loadFlags(flagConfig *Config) {
	flag.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flag.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN (blank enables in-memory store)")
	flag.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flag.StringVar(&flagConfig.RedisAddr, "r", "", "Redis address for admin event stream (optional)")
	flag.StringVar(&flagConfig.JWTUserSecret, "s", "", "JWT signing secret")
	flag.StringVar(&flagConfig.MMKPerCredit, "c", defaultMMKPerCredit, "MMK per one credit conversion rate")

	flag.Parse()
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:    defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DatabaseDSN:   defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir: defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		RedisAddr:     defaultIfBlank(envConfig.RedisAddr, flagsConfig.RedisAddr),
		JWTUserSecret: defaultIfBlank(envConfig.JWTUserSecret, flagsConfig.JWTUserSecret),
		MMKPerCredit:  defaultIfBlank(envConfig.MMKPerCredit, flagsConfig.MMKPerCredit),
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
