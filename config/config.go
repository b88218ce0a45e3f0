package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
	} `yaml:"redis"`
	Worker struct {
		// Render worker: final video composition (multipart submission + job polling)
		RenderAddr string `yaml:"render_addr"`
		// Image worker: text -> image generation
		ImageAddr string `yaml:"image_addr"`
	} `yaml:"worker"`
	MinIO struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"minio"`
	Upload struct {
		// Per-slot size caps in MB, keyed off the allocation mode
		PerSlotLimitMB int `yaml:"per_slot_limit_mb"`
		SingleLimitMB  int `yaml:"single_limit_mb"`
	} `yaml:"upload"`
	Assets struct {
		BGMDir string `yaml:"bgm_dir"`
	} `yaml:"assets"`

	// From environment, not YAML: handed to the frontend as-is.
	OAuthClientID string `yaml:"-"`
}

var AppConfig *Config

func InitConfig() {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	path := os.Getenv("REELS_CONFIG")
	if path == "" {
		path = "config/config.yaml"
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}
	defer f.Close()

	AppConfig = &Config{}
	if err := yaml.NewDecoder(f).Decode(AppConfig); err != nil {
		log.Fatalf("failed to parse config file: %v", err)
	}

	if AppConfig.Upload.PerSlotLimitMB <= 0 {
		AppConfig.Upload.PerSlotLimitMB = 40
	}
	if AppConfig.Upload.SingleLimitMB <= 0 {
		AppConfig.Upload.SingleLimitMB = 80
	}

	AppConfig.OAuthClientID = os.Getenv("GOOGLE_CLIENT_ID")
}
