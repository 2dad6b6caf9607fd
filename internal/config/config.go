// Package config loads the service configuration from a YAML template.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"yatube/internal/pkg"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds all configuration details
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      pkg.KafkaConfig  `yaml:"kafka"`
	SMTP       pkg.SMTPConfig   `yaml:"smtp"`
	Auth       AuthConfig       `yaml:"auth"`
	Pagination PaginationConfig `yaml:"pagination"`
	Groups     []GroupSeed      `yaml:"groups"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// DatabaseConfig picks the post store. The memory driver keeps everything
// in process and is meant for development.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// RedisConfig locates the session store. An empty address keeps sessions
// in process.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	AccessSecret  string `yaml:"accessSecret"`
	RefreshSecret string `yaml:"refreshSecret"`
}

// GroupSeed is a group that serve creates at startup if its slug is not
// taken yet. It is the only way to get groups into the memory driver.
type GroupSeed struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type PaginationConfig struct {
	PostsPerPage        int `yaml:"postsPerPage"`
	ProfilePostsPerPage int `yaml:"profilePostsPerPage"`
}

// Default returns the configuration used for anything a file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database:   DatabaseConfig{Driver: DriverMySQL},
		Pagination: PaginationConfig{PostsPerPage: 10, ProfilePostsPerPage: 2},
	}
}

// LoadConfig loads and parses the configuration from a given file path.
// The file is a text/template rendered with the environment, after a .env
// file in the working directory (if any) has been loaded.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file path is required")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw, loadEnvVars())
}

// Parse renders raw with env and decodes it over the defaults.
func Parse(raw []byte, env map[string]string) (*Config, error) {
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, env); err != nil {
		return nil, fmt.Errorf("render config template: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(buf.Bytes(), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMemory:
	case DriverMySQL:
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the mysql driver")
		}
		dsn, err := mysql.ParseDSN(c.Database.DSN)
		if err != nil {
			return fmt.Errorf("database.dsn: %w", err)
		}
		if !dsn.ParseTime {
			return errors.New("database.dsn must set parseTime=true so post dates can be read")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.New("auth.accessSecret and auth.refreshSecret are required")
	}
	if c.Pagination.PostsPerPage <= 0 || c.Pagination.ProfilePostsPerPage <= 0 {
		return errors.New("pagination sizes must be positive")
	}
	return nil
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
