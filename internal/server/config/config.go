// Package config загружает server.yaml (общий для server и manage)
// и открывает по нему базу данных.
//
// Порядок загрузки: ${VAR} из окружения, yaml, переопределения из
// окружения, дефолты, валидация. Сервер с невалидным конфигом не стартует.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config — корневая структура всего конфига сервера.
type Config struct {
	Env           string              `yaml:"env"` // dev|stage|prod
	Server        ServerConfig        `yaml:"server"`
	TLS           TLSConfig           `yaml:"tls"`
	DB            DBConfig            `yaml:"db"`
	Migrations    MigrationsConfig    `yaml:"migrations"`
	Auth          AuthConfig          `yaml:"auth"`
	Password      PasswordConfig      `yaml:"password"`
	Recipes       RecipesConfig       `yaml:"recipes"`
	Security      SecurityConfig      `yaml:"security"`
	CORS          CORSConfig          `yaml:"cors"`
	Log           LogConfig           `yaml:"log"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig — настройки HTTP-сервера.
type ServerConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"` // время на graceful shutdown
	MaxHeaderBytes    int           `yaml:"max_header_bytes"` // лимит размера заголовков
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`   // лимит размера JSON тела запроса
}

// TLSConfig — настройки HTTPS.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
	MinVersion string `yaml:"min_version"` // 1.2|1.3
}

// DBConfig — настройки подключения к базе данных.
type DBConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// MigrationsConfig — настройки миграций БД.
type MigrationsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // например file://migrations/postgres
}

// AuthConfig — настройки аутентификации/авторизации.
type AuthConfig struct {
	Issuer     string         `yaml:"issuer"`
	Audience   string         `yaml:"audience"`
	AccessTTL  time.Duration  `yaml:"access_ttl"`
	RefreshTTL time.Duration  `yaml:"refresh_ttl"`
	JWT        JWTConfig      `yaml:"jwt"`
	Sessions   SessionsConfig `yaml:"sessions"`
}

// JWTConfig — как подписываем JWT.
type JWTConfig struct {
	Algorithm  string `yaml:"algorithm"`   // сейчас поддерживаем только HS256
	SigningKey string `yaml:"signing_key"` // может содержать ${JWT_SIGNING_KEY}
}

// SessionsConfig — настройки хранения refresh-сессий (на сервере).
type SessionsConfig struct {
	RotateRefresh  bool `yaml:"rotate_refresh"`
	ReuseDetection bool `yaml:"reuse_detection"`
}

// PasswordConfig — настройки хэширования и политики паролей пользователей.
type PasswordConfig struct {
	Hasher    string       `yaml:"hasher"`     // argon2id|bcrypt
	MinLength int          `yaml:"min_length"` // минимальная длина пароля при регистрации
	Argon2    Argon2Config `yaml:"argon2"`
	Bcrypt    BcryptConfig `yaml:"bcrypt"`
}

// Argon2Config — параметры argon2id.
type Argon2Config struct {
	Time      uint32 `yaml:"time"`
	MemoryKiB uint32 `yaml:"memory_kib"`
	Threads   uint8  `yaml:"threads"`
	KeyLen    uint32 `yaml:"key_len"`
	SaltLen   uint32 `yaml:"salt_len"`
}

// BcryptConfig — параметры bcrypt.
type BcryptConfig struct {
	Cost int `yaml:"cost"`
}

// RecipesConfig — хранение изображений рецептов.
type RecipesConfig struct {
	MediaRoot           string   `yaml:"media_root"` // каталог на диске, куда пишем файлы
	MediaURL            string   `yaml:"media_url"`  // URL-префикс, под которым файлы отдаются
	MaxImageBytes       int64    `yaml:"max_image_bytes"`
	AllowedImageFormats []string `yaml:"allowed_image_formats"` // jpeg|png|gif|webp
}

// SecurityConfig — ограничения/защита.
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig — простой rate limit (по IP или по пользователю).
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
	Key     string  `yaml:"key"` // ip|user
}

// CORSConfig — разрешённые источники для браузерных клиентов.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig — настройки логирования (zap).
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|console
	Dir    string `yaml:"dir"`
	Stderr bool   `yaml:"stderr"` // дублировать в stderr
}

// ObservabilityConfig — метрики.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load читает конфиг из path. Ошибки валидации собираются все сразу.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnvStrict(string(raw))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

var envPlaceholder = regexp.MustCompile(`\$\{([A-Z0-9_]+)\}`)

// ExpandEnvStrict подставляет ${VAR} из окружения. Незаданные переменные
// остаются как есть, и Validate потом скажет, какой именно не хватает.
// Голый $VAR не трогается: он встречается в паролях внутри DSN.
func ExpandEnvStrict(s string) string {
	return envPlaceholder.ReplaceAllStringFunc(s, func(m string) string {
		if val, ok := os.LookupEnv(m[2 : len(m)-1]); ok {
			return val
		}
		return m
	})
}

// envOverrides — переменные окружения, перекрывающие значения из yaml.
var envOverrides = map[string]func(c *Config, v string){
	"SERVER_PORT": func(c *Config, v string) {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	},
	"DATABASE_DSN": func(c *Config, v string) { c.DB.DSN = v },
	"LOG_LEVEL":    func(c *Config, v string) { c.Log.Level = v },
	"MEDIA_ROOT":   func(c *Config, v string) { c.Recipes.MediaRoot = v },
}

// ApplyEnvOverrides применяет envOverrides. Пустые переменные игнорируются.
func (c *Config) ApplyEnvOverrides() {
	for name, apply := range envOverrides {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			apply(c, v)
		}
	}
}

// ApplyDefaults заполняет незаданные поля.
func ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Env, "dev")
	setDefault(&cfg.Server.Port, 8080)
	setDefault(&cfg.Server.ShutdownTimeout, 10*time.Second)
	setDefault(&cfg.Server.MaxBodyBytes, 1<<20)
	setDefault(&cfg.Migrations.Path, "file://migrations/postgres")
	setDefault(&cfg.TLS.MinVersion, "1.2")

	setDefault(&cfg.Auth.JWT.Algorithm, "HS256")
	setDefault(&cfg.Auth.AccessTTL, 15*time.Minute)
	setDefault(&cfg.Auth.RefreshTTL, 30*24*time.Hour)
	setDefault(&cfg.Password.MinLength, 5)

	setDefault(&cfg.Recipes.MediaRoot, "runtime/media")
	setDefault(&cfg.Recipes.MediaURL, "/media/")
	setDefault(&cfg.Recipes.MaxImageBytes, 5<<20)
	if len(cfg.Recipes.AllowedImageFormats) == 0 {
		cfg.Recipes.AllowedImageFormats = []string{"jpeg", "png", "gif", "webp"}
	}

	setDefault(&cfg.Log.Level, "info")
	setDefault(&cfg.Log.Format, "json")
	setDefault(&cfg.Security.RateLimit.Key, "ip")
	setDefault(&cfg.Observability.Metrics.Path, "/metrics")
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

// Validate проверяет конфиг целиком и возвращает все найденные проблемы.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateAuth(),
		c.validatePassword(),
		c.validateRecipes(),
		c.validateRateLimit(),
	)
}

func (c *Config) validateServer() error {
	var errs []error
	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host is required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			errs = append(errs, errors.New("tls.cert_file and tls.key_file are required when tls.enabled"))
		}
		// 1.0 и 1.1 не принимаем
		if c.TLS.MinVersion != "" && !slices.Contains([]string{"1.2", "1.3"}, c.TLS.MinVersion) {
			errs = append(errs, fmt.Errorf("tls.min_version must be 1.2 or 1.3, got %q", c.TLS.MinVersion))
		}
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn is required (or DATABASE_DSN)"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateAuth() error {
	if alg := strings.ToUpper(strings.TrimSpace(c.Auth.JWT.Algorithm)); alg != "HS256" {
		return fmt.Errorf("auth.jwt.algorithm: only HS256 is supported, got %q", c.Auth.JWT.Algorithm)
	}

	key := strings.TrimSpace(c.Auth.JWT.SigningKey)
	switch {
	case key == "":
		return errors.New("auth.jwt.signing_key is required")
	case envPlaceholder.MatchString(key):
		return fmt.Errorf("auth.jwt.signing_key: environment variable in %q is not set", key)
	case len(key) < 32:
		return fmt.Errorf("auth.jwt.signing_key too short: %d chars, need at least 32", len(key))
	}

	if c.Auth.AccessTTL < 0 || c.Auth.RefreshTTL < 0 {
		return errors.New("auth.access_ttl and auth.refresh_ttl must not be negative")
	}
	return nil
}

func (c *Config) validatePassword() error {
	var errs []error
	switch strings.ToLower(c.Password.Hasher) {
	case "argon2id":
		a := c.Password.Argon2
		if a.Time == 0 || a.MemoryKiB == 0 || a.Threads == 0 {
			errs = append(errs, errors.New("password.argon2: time, memory_kib and threads are required for argon2id"))
		}
	case "bcrypt":
		if c.Password.Bcrypt.Cost == 0 {
			errs = append(errs, errors.New("password.bcrypt.cost is required for bcrypt"))
		}
	default:
		errs = append(errs, fmt.Errorf("password.hasher must be argon2id or bcrypt, got %q", c.Password.Hasher))
	}
	if c.Password.MinLength < 1 {
		errs = append(errs, errors.New("password.min_length must be positive"))
	}
	return errors.Join(errs...)
}

var knownImageFormats = []string{"jpeg", "png", "gif", "webp"}

func (c *Config) validateRecipes() error {
	var errs []error
	if c.Recipes.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("recipes.max_image_bytes must be positive"))
	}
	for _, f := range c.Recipes.AllowedImageFormats {
		if !slices.Contains(knownImageFormats, f) {
			errs = append(errs, fmt.Errorf("recipes.allowed_image_formats: unknown format %q", f))
		}
	}
	return errors.Join(errs...)
}

func (c *Config) validateRateLimit() error {
	rl := c.Security.RateLimit
	if !rl.Enabled {
		return nil
	}

	var errs []error
	if rl.RPS <= 0 || rl.Burst <= 0 {
		errs = append(errs, errors.New("security.rate_limit: rps and burst must be positive"))
	}
	if rl.Key != "ip" && rl.Key != "user" {
		errs = append(errs, fmt.Errorf("security.rate_limit.key must be ip or user, got %q", rl.Key))
	}
	return errors.Join(errs...)
}
