package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Server
	Port        int    `envconfig:"PORT" default:"3001"`
	Environment string `envconfig:"ENV" default:"development"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Detection engine
	DetectorProvider string        `envconfig:"DETECTOR_PROVIDER" default:"vision"`
	VisionURL        string        `envconfig:"VISION_URL" default:"http://127.0.0.1:5001"`
	DetectorTimeout  time.Duration `envconfig:"DETECTOR_TIMEOUT" default:"10s"`
	AWSRegion        string        `envconfig:"AWS_REGION" default:"us-east-1"`
	FaceCollection   string        `envconfig:"FACE_COLLECTION" default:"lookout-known-faces"`

	// Frame storage
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"disk"`
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	MinioEndpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	MinioAccessKey string `envconfig:"MINIO_ACCESS_KEY" default:""`
	MinioSecretKey string `envconfig:"MINIO_SECRET_KEY" default:""`
	MinioBucket    string `envconfig:"MINIO_BUCKET" default:"lookout-frames"`
	MinioUseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
