package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort        = 5000
	DefaultConfigPath  = "./config.yaml"
	defaultUploadDir   = "./uploads"
	defaultPublicDir   = "./public"
	defaultContentType = "video/mp4"
	defaultChunkSize   = 64 << 10
)

type Config struct {
	Port           int           `yaml:"port" json:"port"`
	UploadDir      string        `yaml:"upload_dir" json:"upload_dir"`
	PublicDir      string        `yaml:"public_dir" json:"public_dir"`
	ContentType    string        `yaml:"content_type" json:"content_type"`
	ChunkSize      int           `yaml:"chunk_size" json:"chunk_size"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
	CORSOrigins    []string      `yaml:"cors_origins" json:"cors_origins"`
	LogLevel       string        `yaml:"log_level" json:"log_level"`
	LogFormat      string        `yaml:"log_format" json:"log_format"`
	GCTTL          time.Duration `yaml:"gc_ttl" json:"gc_ttl"`
	GCInterval     time.Duration `yaml:"gc_interval" json:"gc_interval"`
}

// Default возвращает конфигурацию, с которой сервис стартует без файла и ENV.
func Default() *Config {
	return &Config{
		Port:        DefaultPort,
		UploadDir:   defaultUploadDir,
		PublicDir:   defaultPublicDir,
		ContentType: defaultContentType,
		ChunkSize:   defaultChunkSize,
		CORSOrigins: []string{"*"},
		LogLevel:    "info",
		LogFormat:   "text",
		GCTTL:       24 * time.Hour,
		GCInterval:  30 * time.Minute,
	}
}

// Load читает YAML-конфигурацию (если она есть), применяет ENV-переопределения и проверяет результат.
// Явно указанный CONFIG_PATH обязан существовать; ./config.yaml по умолчанию может отсутствовать.
func Load() (*Config, error) {
	c := Default()

	path, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit || strings.TrimSpace(path) == "" {
		path = DefaultConfigPath
		explicit = false
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	// ENV override
	var errs []error
	c.Port = getenvInt("PORT", c.Port, &errs)
	c.UploadDir = getenv("UPLOAD_DIR", c.UploadDir)
	c.PublicDir = getenv("PUBLIC_DIR", c.PublicDir)
	c.ContentType = getenv("CONTENT_TYPE", c.ContentType)
	c.ChunkSize = getenvInt("STREAM_CHUNK_BYTES", c.ChunkSize, &errs)
	c.MaxUploadBytes = getenvInt64("MAX_UPLOAD_BYTES", c.MaxUploadBytes, &errs)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)
	c.GCTTL = getenvDuration("GC_TTL", c.GCTTL, &errs)
	c.GCInterval = getenvDuration("GC_INTERVAL", c.GCInterval, &errs)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitComma(v)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return c, c.Validate()
}

// Validate проверяет значения, без которых сервер не сможет стартовать.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if strings.TrimSpace(c.UploadDir) == "" {
		return fmt.Errorf("upload_dir is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be > 0, got %d", c.ChunkSize)
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must be >= 0, got %d", c.MaxUploadBytes)
	}

	return nil
}

// ListenAddr возвращает адрес для http.Server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}

// getenvInt возвращает целочисленное значение из переменной окружения либо дефолт.
// Некорректное значение добавляется в errs.
func getenvInt(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("env %s=%q: %w", k, v, err))
		return def
	}

	return n
}

func getenvInt64(k string, def int64, errs *[]error) int64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("env %s=%q: %w", k, v, err))
		return def
	}

	return n
}

func getenvDuration(k string, def time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("env %s=%q: %w", k, v, err))
		return def
	}

	return d
}
