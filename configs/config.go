package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"vibestyle/internal/domain"
	"vibestyle/internal/infrastructure/config"

	"github.com/joho/godotenv"
)

// デフォルトのリード送信先（Google Apps Script）
const defaultLeadEndpoint = "https://script.google.com/macros/s/AKfycbxXWB68KG3ik7eD-xBXX7uS40gPK80PuKJevid4q6tJ9I-qQoi8IotRmPDx_lz7w02wMQ/exec"

// Config は、アプリケーション全体の設定を定義します
type Config struct {
	Gemini    config.GeminiConfig
	Server    config.ServerConfig
	Workbench config.WorkbenchConfig
	Storage   config.StorageConfig
	Lead      config.LeadConfig
}

// LoadConfig は、環境変数から設定を読み込みます
func LoadConfig() (*Config, error) {
	// .envファイルを読み込み（ファイルが存在しない場合は無視）
	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "警告: .envファイルの読み込みに失敗しました: %v\n", err)
	}

	defaults := config.DefaultGeminiConfig()
	cfg := &Config{
		Gemini: config.GeminiConfig{
			APIKey:         getEnvOrDefault("GEMINI_API_KEY", getEnvOrDefault("API_KEY", "")),
			ImageModelName: getEnvOrDefault("GEMINI_IMAGE_MODEL", defaults.ImageModelName),
			TextModelName:  getEnvOrDefault("GEMINI_TEXT_MODEL", defaults.TextModelName),
			MaxTokens:      int32(getEnvAsIntOrDefault("GEMINI_MAX_TOKENS", int(defaults.MaxTokens))),
			Temperature:    float32(getEnvAsFloatOrDefault("GEMINI_TEMPERATURE", float64(defaults.Temperature))),
			TopP:           float32(getEnvAsFloatOrDefault("GEMINI_TOP_P", float64(defaults.TopP))),
			MaxRetries:     getEnvAsIntOrDefault("GEMINI_MAX_RETRIES", defaults.MaxRetries),
			MaxImageSize:   getEnvAsIntOrDefault("IMAGE_MAX_DIMENSION", defaults.MaxImageSize),
			JPEGQuality:    getEnvAsIntOrDefault("IMAGE_JPEG_QUALITY", defaults.JPEGQuality),
		},
		Server: config.ServerConfig{
			Addr:            getEnvOrDefault("HTTP_ADDR", ":8080"),
			RequestTimeout:  getEnvAsDurationOrDefault("REQUEST_TIMEOUT", 90*time.Second),
			MaxUploadBytes:  int64(getEnvAsIntOrDefault("MAX_UPLOAD_BYTES", 15<<20)),
			ShutdownTimeout: getEnvAsDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
			SecureCookies:   getEnvAsBoolOrDefault("SECURE_COOKIES", false),
		},
		Workbench: config.WorkbenchConfig{
			FailureResetDelay:    getEnvAsDurationOrDefault("FAILURE_RESET_DELAY", 30*time.Second),
			ConfirmationDuration: getEnvAsDurationOrDefault("CONFIRMATION_DURATION", domain.ConfirmationDuration),
			CatalogPath:          getEnvOrDefault("CATALOG_PATH", ""),
			WatchCatalog:         getEnvAsBoolOrDefault("WATCH_CATALOG", true),
			SessionIdleTTL:       getEnvAsDurationOrDefault("SESSION_IDLE_TTL", 2*time.Hour),
			SweepInterval:        getEnvAsDurationOrDefault("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Storage: config.StorageConfig{
			HistoryDBPath: getEnvOrDefault("HISTORY_DB_PATH", "vibestyle.db"),
		},
		Lead: config.LeadConfig{
			EndpointURL:       getEnvOrDefault("LEAD_ENDPOINT_URL", defaultLeadEndpoint),
			DiscordWebhookURL: getEnvOrDefault("DISCORD_WEBHOOK_URL", ""),
			Timeout:           getEnvAsDurationOrDefault("LEAD_TIMEOUT", 15*time.Second),
		},
	}

	// 必須設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate は、設定の妥当性を検証します（APIキーは ValidateCredentials で検証します）
func (c *Config) Validate() error {
	if c.Gemini.MaxTokens <= 0 {
		return fmt.Errorf("GEMINI_MAX_TOKENS は正の整数である必要があります")
	}

	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("GEMINI_TEMPERATURE は0から2の範囲である必要があります")
	}

	if c.Gemini.TopP < 0 || c.Gemini.TopP > 1 {
		return fmt.Errorf("GEMINI_TOP_P は0から1の範囲である必要があります")
	}

	if c.Gemini.MaxRetries < 0 {
		return fmt.Errorf("GEMINI_MAX_RETRIES は0以上である必要があります")
	}

	if c.Gemini.MaxImageSize <= 0 {
		return fmt.Errorf("IMAGE_MAX_DIMENSION は正の整数である必要があります")
	}

	if c.Gemini.JPEGQuality < 1 || c.Gemini.JPEGQuality > 100 {
		return fmt.Errorf("IMAGE_JPEG_QUALITY は1から100の範囲である必要があります")
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT は正の値である必要があります")
	}

	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES は正の整数である必要があります")
	}

	if c.Workbench.FailureResetDelay <= 0 {
		return fmt.Errorf("FAILURE_RESET_DELAY は正の値である必要があります")
	}

	if c.Workbench.ConfirmationDuration <= 0 {
		return fmt.Errorf("CONFIRMATION_DURATION は正の値である必要があります")
	}

	if c.Storage.HistoryDBPath == "" {
		return fmt.Errorf("HISTORY_DB_PATH が設定されていません")
	}

	if !strings.HasPrefix(c.Lead.EndpointURL, "https://") && !strings.HasPrefix(c.Lead.EndpointURL, "http://") {
		return fmt.Errorf("LEAD_ENDPOINT_URL はHTTP(S)のURLである必要があります")
	}

	return nil
}

// ValidateCredentials は、Gemini APIの認証情報が設定されているかを検証します
func (c *Config) ValidateCredentials() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY が設定されていません")
	}
	return nil
}

// getEnvOrDefault は、環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は、環境変数を整数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault は、環境変数を浮動小数点数として取得し、存在しない場合はデフォルト値を返します
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault は、環境変数を時間として取得し、存在しない場合はデフォルト値を返します
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は、環境変数を真偽値として取得し、存在しない場合はデフォルト値を返します
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
