package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"newsfeed/internal/domain"
	"os"
	"time"
)

// Config представляет основную конфигурацию приложения.
// Содержит настройки сервера, логгера, приложения, кеша и базы данных.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Logger   LoggerConfig   `json:"logger"`
	App      AppConfig      `json:"app"`
	Cache    CacheConfig    `json:"cache"`
	Database DatabaseConfig `json:"database"`
}

// ServerConfig содержит настройки HTTP-сервера приложения.
type ServerConfig struct {
	Address string `json:"address"`
}

// LoggerConfig содержит настройки системы логирования.
// Определяет уровень детализации логов (debug, info, warn, error).
type LoggerConfig struct {
	Level string `json:"level"`
}

// TagOverrides - переопределения имен тегов RSS для источника.
// Незаполненные поля означают стандартные имена (title, category,
// pubDate, description, link).
type TagOverrides struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// FeedSource представляет конфигурацию отдельного источника RSS:
// имя, URL ленты, лимит сохраняемых новостей за прогон и
// переопределения имен тегов.
type FeedSource struct {
	Name     string       `json:"name"`
	URL      string       `json:"url"`
	MaxItems int          `json:"max_items"`
	Tags     TagOverrides `json:"tags"`
}

// AppConfig содержит настройки бизнес-логики приложения.
// Включает лимиты, список источников, интервал обработки и
// размер пула воркеров.
type AppConfig struct {
	DefaultMaxItems    int          `json:"default_max_items"`
	DefaultNewsLimit   int          `json:"default_news_limit"`
	Sources            []FeedSource `json:"sources"`
	ProcessingInterval string       `json:"processing_interval"`
	Workers            int          `json:"workers"`
}

// CacheConfig содержит настройки кеша чтения.
type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// TTL возвращает срок жизни записей кеша как time.Duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DatabaseConfig содержит параметры подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	SSLMode  string `json:"sslmode"`
}

// DSN возвращает строку подключения к PostgreSQL в формате URI.
// Используется для установки соединения через pgxpool.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode)
}

// Load загружает конфигурацию из JSON-файла по указанному пути.
// Возвращает ошибку если файл не существует, недоступен для чтения
// или содержит некорректный JSON. Использует значения по умолчанию
// для незаданных полей конфигурации.
func Load(configPath string) (*Config, error) {
	cfg := New()
	fileData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := json.Unmarshal(fileData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from file %s: %w", configPath, err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// New создает новый экземпляр Config со значениями по умолчанию.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		App: AppConfig{
			DefaultMaxItems:    10,
			DefaultNewsLimit:   10,
			ProcessingInterval: "3m",
			Workers:            4,
			Sources:            []FeedSource{},
		},
		Cache: CacheConfig{
			TTLSeconds: 3600,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			SSLMode: "disable",
		},
	}
}

// applyEnvOverrides подставляет учетные данные БД из окружения,
// если они заданы. Окружение подгружается из .env через godotenv в main.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		cfg.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.DBName = v
	}
}

// Validate проверяет корректность конфигурации.
// Проверяет обязательные поля базы данных, корректность URL источников,
// валидность интервала обработки и другие критичные параметры.
// Возвращает ошибку с описанием первой найденной проблемы.
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is not set")
	}
	if c.Database.Username == "" {
		return fmt.Errorf("database username is not set")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("database password is not set")
	}
	if c.App.DefaultMaxItems <= 0 {
		return fmt.Errorf("app.default_max_items must be a positive number")
	}
	if c.App.DefaultNewsLimit <= 0 {
		return fmt.Errorf("app.default_news_limit must be a positive number")
	}
	if c.App.Workers <= 0 {
		return fmt.Errorf("app.workers must be a positive number")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache.ttl_seconds must be a positive number")
	}
	if len(c.App.Sources) == 0 {
		return fmt.Errorf("app.sources must not be empty")
	}
	for _, src := range c.App.Sources {
		if _, err := url.ParseRequestURI(src.URL); err != nil {
			return fmt.Errorf("invalid url in app.sources: %s", src.URL)
		}
		if src.Name == "" {
			return fmt.Errorf("source name cannot be empty for url: %s", src.URL)
		}
		if src.MaxItems < 0 {
			return fmt.Errorf("max_items cannot be negative for source: %s", src.Name)
		}
	}
	if _, err := time.ParseDuration(c.App.ProcessingInterval); err != nil {
		return fmt.Errorf("invalid app.processing_interval: %w", err)
	}
	return nil
}

// FeedSources преобразует конфигурацию источников в доменные значения:
// подставляет лимит по умолчанию и стандартные имена тегов.
func (c *Config) FeedSources() []domain.FeedSource {
	sources := make([]domain.FeedSource, 0, len(c.App.Sources))
	for _, src := range c.App.Sources {
		maxItems := src.MaxItems
		if maxItems == 0 {
			maxItems = c.App.DefaultMaxItems
		}
		sources = append(sources, domain.FeedSource{
			Name:     src.Name,
			URL:      src.URL,
			MaxItems: maxItems,
			Tags: domain.TagNames{
				Title:       src.Tags.Title,
				Category:    src.Tags.Category,
				Date:        src.Tags.Date,
				Description: src.Tags.Description,
				Link:        src.Tags.Link,
			}.WithDefaults(),
		})
	}
	return sources
}
