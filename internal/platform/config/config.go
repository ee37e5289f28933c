package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持します
type Config struct {
	// Database設定
	Database DatabaseConfig

	// OpenAI設定（記事生成エージェントと画像生成に使用）
	OpenAI OpenAIConfig

	// Shopify同期設定
	Shopify ShopifyConfig

	// オブジェクトストレージ設定（画像アップロード用）
	Storage StorageConfig

	// ブログ生成設定
	Blog BlogConfig
}

// DatabaseConfig はデータベース接続設定
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// OpenAIConfig はOpenAI API設定
type OpenAIConfig struct {
	APIKey     string
	Model      string
	ImageModel string
	MaxTurns   int // エージェントループの最大ターン数
}

// ShopifyConfig はShopify Admin API設定
type ShopifyConfig struct {
	StoreDomain   string // 例: example.myshopify.com
	AdminToken    string
	APIVersion    string
	DefaultAuthor string // 著者未設定時に使う表示名
}

// StorageConfig はオブジェクトストレージ設定
type StorageConfig struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
}

// BlogConfig はブログ生成のデフォルト設定
type BlogConfig struct {
	DefaultAuthorSlug     string
	DefaultStatus         string
	PostsPerRun           int
	EnableImageGeneration bool
}

// Load は環境変数または.envファイルから設定を読み込みます
func Load(envFilePath string) (*Config, error) {
	// .envファイルが存在する場合は読み込む
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			// ファイルが存在しない場合はエラーとしない（環境変数のみで動作可能）
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "blog"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "blog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o"),
			ImageModel: getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			MaxTurns:   getEnvAsInt("MAX_TURNS", 15),
		},
		Shopify: ShopifyConfig{
			StoreDomain:   getEnv("SHOPIFY_STORE_DOMAIN", ""),
			AdminToken:    getEnv("SHOPIFY_ADMIN_TOKEN", ""),
			APIVersion:    getEnv("SHOPIFY_API_VERSION", "2024-07"),
			DefaultAuthor: getEnv("SHOPIFY_DEFAULT_AUTHOR", "Editorial Team"),
		},
		Storage: StorageConfig{
			BaseURL:    getEnv("STORAGE_BASE_URL", ""),
			ServiceKey: getEnv("STORAGE_SERVICE_KEY", ""),
			Bucket:     getEnv("STORAGE_BUCKET", "blog-images"),
		},
		Blog: BlogConfig{
			DefaultAuthorSlug:     getEnv("DEFAULT_AUTHOR_SLUG", "editorial-team"),
			DefaultStatus:         getEnv("DEFAULT_STATUS", "draft"),
			PostsPerRun:           getEnvAsInt("POSTS_PER_RUN", 1),
			EnableImageGeneration: getEnvAsBool("ENABLE_IMAGE_GENERATION", false),
		},
	}

	return cfg, nil
}

// Validate は記事生成に必要な設定が揃っているか検証します
// 不足項目はまとめて報告し、プロセス開始時点で失敗させます。
func (c *Config) Validate() error {
	var missing []string

	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Database.Password == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.Blog.EnableImageGeneration {
		if c.Storage.BaseURL == "" {
			missing = append(missing, "STORAGE_BASE_URL")
		}
		if c.Storage.ServiceKey == "" {
			missing = append(missing, "STORAGE_SERVICE_KEY")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateShopify はShopify同期に必要な設定が揃っているか検証します
func (c *Config) ValidateShopify() error {
	var missing []string

	if c.Shopify.StoreDomain == "" {
		missing = append(missing, "SHOPIFY_STORE_DOMAIN")
	}
	if c.Shopify.AdminToken == "" {
		missing = append(missing, "SHOPIFY_ADMIN_TOKEN")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt は環境変数を整数として取得します
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool は環境変数を真偽値として取得します
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
