package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	DatabaseURL          string
	JWTSecret            string
	GoogleAudience       string
	AllowOrigins         []string
	LogstashTCPAddr      string
	MinIOEndpoint        string
	MinIOAccessKey       string
	MinIOSecretKey       string
	MinIOUseSSL          bool
	MinIOBucketSuppliers string
	MinIOPublicURL       string
	SessionTTL           string
	FFmpegPath           string
	SupplierImageMaxDim  int
	ImportMaxRows        int
	ImportMaxFileBytes   int64
	ImportMaxZipBytes    int64
	ImportUploadWorkers  int
	EnableSupplierView   bool
	EnableImport         bool
	EnableArticles       bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	maxRows := 500
	if v, err := strconv.Atoi(getenv("IMPORT_MAX_ROWS", "500")); err == nil && v > 0 {
		maxRows = v
	}

	maxFile := int64(5 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("IMPORT_MAX_FILE_BYTES", "5242880"), 10, 64); err == nil && v > 0 {
		maxFile = v
	}

	maxZip := int64(50 * 1024 * 1024)
	if v, err := strconv.ParseInt(getenv("IMPORT_MAX_ZIP_BYTES", "52428800"), 10, 64); err == nil && v > 0 {
		maxZip = v
	}

	workers := 4
	if v, err := strconv.Atoi(getenv("IMPORT_UPLOAD_WORKERS", "4")); err == nil && v > 0 {
		workers = v
	}

	maxDim := 3840
	if v, err := strconv.Atoi(getenv("SUPPLIER_IMAGE_MAX_DIM", "3840")); err == nil && v > 0 {
		maxDim = v
	}

	return Config{
		Port:                 getenv("PORT", "8080"),
		DatabaseURL:          must("DATABASE_URL"),
		JWTSecret:            must("JWT_SECRET"),
		GoogleAudience:       getenv("GOOGLE_AUDIENCE", ""),
		AllowOrigins:         splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:      getenv("LOGSTASH_TCP_ADDR", ""),
		MinIOEndpoint:        must("MINIO_ENDPOINT"),
		MinIOAccessKey:       must("MINIO_ACCESS_KEY"),
		MinIOSecretKey:       must("MINIO_SECRET_KEY"),
		MinIOUseSSL:          getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketSuppliers: must("MINIO_BUCKET_SUPPLIERS"),
		MinIOPublicURL:       getenv("MINIO_PUBLIC_URL", ""),
		SessionTTL:           getenv("SESSION_TTL", "24h"),
		FFmpegPath:           getenv("FFMPEG_PATH", "ffmpeg"),
		SupplierImageMaxDim:  maxDim,
		ImportMaxRows:        maxRows,
		ImportMaxFileBytes:   maxFile,
		ImportMaxZipBytes:    maxZip,
		ImportUploadWorkers:  workers,
		EnableSupplierView:   getenv("ENABLE_SUPPLIER_VIEW", "true") == "true",
		EnableImport:         getenv("ENABLE_SUPPLIER_IMPORT", "true") == "true",
		EnableArticles:       getenv("ENABLE_ARTICLES", "true") == "true",
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
