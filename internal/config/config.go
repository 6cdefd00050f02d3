package config

import (
	"strings"

	"github.com/spf13/viper"
)

type MediaBackend string

const (
	MediaBackendLocal MediaBackend = "local" // Files under Media.Root (default)
	MediaBackendS3    MediaBackend = "s3"    // Files in an S3 bucket
)

type (
	Config struct {
		HTTP
		Global
		Database
		Media
		S3
		CORS
		Audit
		Uploads
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Media struct {
		Backend MediaBackend
		Root    string // Directory for the local backend
		BaseURL string // Public base for pdf_url/video_url; derived per request when empty
	}
	S3 struct {
		Bucket          string
		Region          string
		Endpoint        string // Custom endpoint for S3-compatible stores
		AccessKeyID     string
		SecretAccessKey string
		UsePathStyle    bool
		Prefix          string // Key prefix inside the bucket
	}
	CORS struct {
		AllowedOrigins []string
	}
	Audit struct {
		Enabled       bool
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Uploads struct {
		MaxRequestBytes int64 // Cap on request bodies, above the 10 MiB PDF limit
		MaxMemoryBytes  int64 // Multipart parts above this spill to temp files
	}
)

// splitList parses a comma-separated setting, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Media storage defaults
	v.SetDefault("media_backend", string(MediaBackendLocal))
	v.SetDefault("media_root", DefaultMediaRoot)
	v.SetDefault("media_base_url", "")

	// S3 defaults
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_region", "us-east-1")
	v.SetDefault("s3_endpoint", "")
	v.SetDefault("s3_access_key_id", "")
	v.SetDefault("s3_secret_access_key", "")
	v.SetDefault("s3_use_path_style", false)
	v.SetDefault("s3_prefix", "")

	v.SetDefault("cors_allowed_origins", "")

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("upload_max_request_bytes", 32<<20)
	v.SetDefault("upload_max_memory_bytes", 8<<20)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Media: Media{
			Backend: MediaBackend(strings.ToLower(v.GetString("MEDIA_BACKEND"))),
			Root:    v.GetString("MEDIA_ROOT"),
			BaseURL: strings.TrimRight(v.GetString("MEDIA_BASE_URL"), "/"),
		},
		S3: S3{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			Prefix:          v.GetString("S3_PREFIX"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Uploads: Uploads{
			MaxRequestBytes: v.GetInt64("UPLOAD_MAX_REQUEST_BYTES"),
			MaxMemoryBytes:  v.GetInt64("UPLOAD_MAX_MEMORY_BYTES"),
		},
	}
}
