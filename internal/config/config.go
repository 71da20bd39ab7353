// config предоставляет структуру конфигурации news-radar
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config — корневая конфигурация процесса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Renderer  RendererConfig  `yaml:"renderer"`
	AI        AIConfig        `yaml:"ai"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
	Limits    LimitsConfig    `yaml:"limits"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig — путь к файлу SQLite.
type DBConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"data/news-radar.db"`
}

// FetcherConfig — параметры цикла загрузки источников.
type FetcherConfig struct {
	Concurrency   int           `yaml:"concurrency"    env:"FETCH_CONCURRENCY"    env-default:"3"`
	MaxSources    int           `yaml:"max_sources"    env:"FETCH_MAX_SOURCES"    env-default:"20"`
	PerSourceCap  int           `yaml:"per_source_cap" env:"FETCH_PER_SOURCE_CAP" env-default:"12"`
	SourceTimeout time.Duration `yaml:"source_timeout" env:"FETCH_SOURCE_TIMEOUT" env-default:"20s"`
	CycleTimeout  time.Duration `yaml:"cycle_timeout"  env:"FETCH_CYCLE_TIMEOUT"  env-default:"60s"`
	// ContentBudget — предел длины content в рунах.
	ContentBudget int    `yaml:"content_budget" env:"CONTENT_BUDGET" env-default:"2000"`
	UserAgent     string `yaml:"user_agent"     env:"FETCH_USER_AGENT"`
	// Proxy — исходящий прокси; внутренние хосты его обходят.
	Proxy string `yaml:"proxy" env:"HTTPS_PROXY"`
}

// RendererConfig — внешний headless-рендерер. Пустой URL отключает Headless-источники.
type RendererConfig struct {
	URL     string        `yaml:"url"     env:"RENDERER_URL"`
	Timeout time.Duration `yaml:"timeout" env:"RENDERER_TIMEOUT" env-default:"15s"`
}

// AIConfig — модель для summary. BaseURL/Model/APIKey служат запасными
// значениями для пустых сохранённых настроек.
type AIConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"AI_BASE_URL"`
	Model          string        `yaml:"model"           env:"AI_MODEL" env-default:"qwen3-max"`
	APIKey         string        `yaml:"api_key"         env:"AI_API_KEY"`
	Timeout        time.Duration `yaml:"timeout"         env:"AI_TIMEOUT"         env-default:"30s"`
	RateInterval   time.Duration `yaml:"rate_interval"   env:"AI_RATE_INTERVAL"   env-default:"1s"`
	Attempts       int           `yaml:"attempts"        env:"AI_ATTEMPTS"        env-default:"3"`
	BackoffInitial time.Duration `yaml:"backoff_initial" env:"AI_BACKOFF_INITIAL" env-default:"2s"`
	MaxInput       int           `yaml:"max_input"       env:"AI_MAX_INPUT"       env-default:"3000"`
	MaxTokens      int           `yaml:"max_tokens"      env:"AI_MAX_TOKENS"      env-default:"200"`
}

// SchedulerConfig — cron-выражения фоновых задач. Пустое выражение отключает задачу.
type SchedulerConfig struct {
	Ingest  string `yaml:"ingest"  env:"SCHEDULE_INGEST"  env-default:"@every 30m"`
	Cleanup string `yaml:"cleanup" env:"SCHEDULE_CLEANUP" env-default:"@daily"`
}

// CleanupConfig — пороги очистки по умолчанию (до первого сохранения настроек).
type CleanupConfig struct {
	MaxAge      time.Duration `yaml:"max_age"      env:"CLEANUP_MAX_AGE"      env-default:"720h"`
	HeatFloor   float64       `yaml:"heat_floor"   env:"CLEANUP_HEAT_FLOOR"   env-default:"0"`
	Grace       time.Duration `yaml:"grace"        env:"CLEANUP_GRACE"        env-default:"48h"`
	MaxArticles int           `yaml:"max_articles" env:"CLEANUP_MAX_ARTICLES" env-default:"300"`
}

// LimitsConfig — серверные лимиты на выдачу.
type LimitsConfig struct {
	// Применяется при запросе с page_size=0.
	Default int `yaml:"default" env:"DEFAULT_LIMIT" env-default:"20"`
	// Верхняя граница для page_size.
	Max int `yaml:"max" env:"MAX_LIMIT" env-default:"100"`
}

// TimeoutConfig — таймауты обработки запросов.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)
	switch {
	case path != "":
		c, err = tryRead(path)
	case os.Getenv("CONFIG_PATH") != "":
		c, err = tryRead(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			c, err = tryRead("local.yaml")
			break
		}
		if err = cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		c = &cfg
	}
	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	switch c.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("env must be one of local, dev, prod")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path is required")
	}
	if c.Fetcher.Concurrency <= 0 {
		return fmt.Errorf("fetcher.concurrency must be > 0")
	}
	if c.Fetcher.MaxSources <= 0 {
		return fmt.Errorf("fetcher.max_sources must be > 0")
	}
	if c.Fetcher.PerSourceCap <= 0 {
		return fmt.Errorf("fetcher.per_source_cap must be > 0")
	}
	if c.Fetcher.SourceTimeout <= 0 || c.Fetcher.CycleTimeout <= 0 {
		return fmt.Errorf("fetcher timeouts must be > 0")
	}
	if c.Fetcher.SourceTimeout >= c.Fetcher.CycleTimeout {
		return fmt.Errorf("fetcher.source_timeout must be shorter than fetcher.cycle_timeout")
	}
	if c.AI.Attempts <= 0 {
		return fmt.Errorf("ai.attempts must be > 0")
	}
	if c.AI.RateInterval < 0 {
		return fmt.Errorf("ai.rate_interval must be >= 0")
	}
	if c.Cleanup.MaxArticles < 0 {
		return fmt.Errorf("cleanup.max_articles must be >= 0")
	}
	if c.Limits.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}
	if c.Limits.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}
	if c.Limits.Default > c.Limits.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}
	return nil
}
