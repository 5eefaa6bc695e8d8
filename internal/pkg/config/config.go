package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Endpoint EndpointConfig
	Storage  StorageConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type UploadConfig struct {
	MaxFileSize      int64 // bytes
	ThumbnailMaxSize int   // uzun kenar, px
	PreviewMaxSize   int   // uzun kenar, px
	ThumbnailQuality int   // JPEG 1-100
	PreviewQuality   int   // JPEG 1-100
	ImageTypes       []string
	VideoTypes       []string
}

type EndpointConfig struct {
	UploadURL    string // multipart upload endpointi
	MediaBaseURL string // existence probe tabanı
	APIBaseURL   string // metadata store tabanı
}

type StorageConfig struct {
	Backend  string // "http", "s3", "local"
	LocalDir string
	S3Bucket string
	S3Region string
}

type RedisConfig struct {
	Host string
	Port string
}

func LoadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3000"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Upload: UploadConfig{
			MaxFileSize:      getEnvAsInt64("MAX_FILE_SIZE", 50*1024*1024), // 50MB
			ThumbnailMaxSize: getEnvAsInt("THUMBNAIL_MAX_SIZE", 800),
			PreviewMaxSize:   getEnvAsInt("PREVIEW_MAX_SIZE", 1200),
			ThumbnailQuality: getEnvAsInt("THUMBNAIL_QUALITY", 60),
			PreviewQuality:   getEnvAsInt("PREVIEW_QUALITY", 80),
			ImageTypes: getEnvAsList("ALLOWED_IMAGE_TYPES", []string{
				"image/jpeg", "image/png", "image/webp", "image/gif",
				"image/bmp", "image/tiff", "image/svg+xml", "image/heic", "image/heif",
			}),
			VideoTypes: getEnvAsList("ALLOWED_VIDEO_TYPES", []string{
				"video/mp4", "video/avi", "video/quicktime", "video/webm",
				"video/ogg", "video/3gpp", "video/x-ms-wmv", "video/x-flv",
			}),
		},
		Endpoint: EndpointConfig{
			UploadURL:    getEnv("UPLOAD_ENDPOINT", "http://localhost:9000/upload"),
			MediaBaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:9000"),
			APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:9000/api"),
		},
		Storage: StorageConfig{
			Backend:  getEnv("STORAGE_BACKEND", "http"),
			LocalDir: getEnv("STORAGE_LOCAL_DIR", "uploads"),
			S3Bucket: getEnv("S3_BUCKET", ""),
			S3Region: getEnv("S3_REGION", "us-east-1"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", ""),
			Port: getEnv("REDIS_PORT", "6379"),
		},
	}

	if config.Storage.Backend == "local" {
		if err := os.MkdirAll(config.Storage.LocalDir, 0755); err != nil {
			panic(err)
		}
	}

	return config
}

// RedisAddr REDIS_HOST boşsa event yayını devre dışıdır.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
