package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	apiKeyENV         = "BITUNIX_API_KEY"
	apiSecretENV      = "BITUNIX_API_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB string `yaml:"db_dsn"`

	Bitunix struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		BaseURL   string `yaml:"base_url"`
	} `yaml:"bitunix"`

	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// PaperTrading: симуляция сделок против локального леджера,
	// без реальных денег.
	PaperTrading bool `yaml:"paper_trading"`

	// Лимиты риска. Дефолты рассчитаны на маленький депозит (~$25).
	Risk struct {
		MaxPositionSizeUSD  float64 `yaml:"max_position_size_usd"`
		MinPositionSizeUSD  float64 `yaml:"min_position_size_usd"`
		MaxTotalExposureUSD float64 `yaml:"max_total_exposure_usd"`
		MaxDailyTrades      int     `yaml:"max_daily_trades"`
		MaxLeverage         int     `yaml:"max_leverage"`
		TakeProfitPct       float64 `yaml:"take_profit_pct"` // офсет TP от марки, %
		StopLossPct         float64 `yaml:"stop_loss_pct"`   // офсет SL от марки, %
	} `yaml:"risk"`

	Paper struct {
		StartBalance float64 `yaml:"start_balance"`
		StatePath    string  `yaml:"state_path"`
		AuditPath    string  `yaml:"audit_path"`
	} `yaml:"paper"`

	// Транспорт
	HTTPTimeout time.Duration
	Retries     int
	RetryDelay  time.Duration
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		PaperTrading: true,

		HTTPTimeout: durationFromEnv("HTTP_TIMEOUT", "15s"),
		Retries:     intFromEnv("API_RETRIES", 2),
		RetryDelay:  durationFromEnv("API_RETRY_DELAY", "500ms"),
	}
	config.Risk.MaxPositionSizeUSD = 5.0
	config.Risk.MinPositionSizeUSD = 1.0
	config.Risk.MaxTotalExposureUSD = 20.0
	config.Risk.MaxDailyTrades = 10
	config.Risk.MaxLeverage = 2
	config.Risk.TakeProfitPct = 2.0
	config.Risk.StopLossPct = 5.0
	config.Paper.StartBalance = 25.0
	config.Paper.StatePath = "paper_trading_data.json"
	config.Paper.AuditPath = "logs/trades.json"
	config.Bitunix.BaseURL = "https://fapi.bitunix.com"

	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(apiKeyENV); v != "" {
		config.Bitunix.APIKey = v
	}
	if v := os.Getenv(apiSecretENV); v != "" {
		config.Bitunix.APISecret = v
	}

	if !config.PaperTrading && (config.Bitunix.APIKey == "" || config.Bitunix.APISecret == "") {
		return nil, fmt.Errorf("live trading requires %s and %s", apiKeyENV, apiSecretENV)
	}

	return &config, nil
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func intFromEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durationFromEnv(key, def string) time.Duration {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
