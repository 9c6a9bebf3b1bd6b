package config

import (
	"os"
	"time"
)

type Storage struct {
	Backend    string
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Facebook struct {
	PageID      string
	AccessToken string
}

type Config struct {
	ListenAddr        string
	PostgresURI       string
	UploadDir         string
	PublicBaseURL     string
	Storage           Storage
	Facebook          Facebook
	SchedulerInterval time.Duration
	LookbackWindow    time.Duration
	PlatformTimeout   time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ListenAddr:    getEnv("LISTEN_ADDR", ":3000"),
		PostgresURI:   getEnv("POSTGRES_URI", ""),
		UploadDir:     getEnv("UPLOAD_DIR", "public/uploads"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		Storage: Storage{
			Backend:    getEnv("STORAGE_BACKEND", "local"),
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
		Facebook: Facebook{
			PageID:      getEnv("FACEBOOK_PAGE_ID", ""),
			AccessToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),
		},
		SchedulerInterval: getDurationEnv("SCHEDULER_INTERVAL", time.Minute),
		LookbackWindow:    getDurationEnv("SCHEDULER_LOOKBACK", 5*time.Minute),
		PlatformTimeout:   getDurationEnv("PLATFORM_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
