package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local"`
	AdminToken  string      `yaml:"admin_token" env:"ADMIN_TOKEN" env-required:"true"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	DB          DB          `yaml:"db"`
	Cache       Cache       `yaml:"cache"`
	FileStorage FileStorage `yaml:"file_storage"`
	Pipeline    Pipeline    `yaml:"pipeline"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Addr     string `yaml:"addr" env:"DB_ADDR" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-required:"true"`
	DB       string `yaml:"database" env:"DB_NAME" env-required:"true"`
}

type Cache struct {
	Addr          string        `yaml:"addr" env:"CACHE_ADDR" env-default:"localhost:6379"`
	Password      string        `yaml:"password" env:"CACHE_PASSWORD"`
	DB            int           `yaml:"db" env:"CACHE_DB" env-default:"0"`
	SessionTTL    time.Duration `yaml:"session_ttl" env-default:"24h"`
	FolderEvalTTL time.Duration `yaml:"folder_eval_ttl" env-default:"10m"`
}

type FileStorage struct {
	Path          string `yaml:"path" env:"FILE_STORAGE_PATH" env-default:"./storage"`
	MaxUploadSize int64  `yaml:"max_upload_size" env:"MAX_UPLOAD_SIZE" env-default:"52428800"`
}

type Pipeline struct {
	Workers        int           `yaml:"workers" env:"PIPELINE_WORKERS" env-default:"4"`
	QueueSize      int           `yaml:"queue_size" env:"PIPELINE_QUEUE_SIZE" env-default:"1024"`
	ExtractTimeout time.Duration `yaml:"extract_timeout" env-default:"30s"`
}

func MustLoad() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			log.Fatalf("failed to read config %s: %v", path, err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("failed to read config from env: %v", err)
	}

	return &cfg
}
