package config

import (
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	// DatabaseDSN drives the property, knowledge and blueprint stores.
	// Empty means in-memory stores (local development).
	DatabaseDSN string

	// CapabilityBaseURL is the platform capabilities provider.
	CapabilityBaseURL string

	Model    string
	Artifact ArtifactConfig
}

type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8082", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Config{
		Port:              *port,
		Env:               env,
		DatabaseDSN:       strings.TrimSpace(os.Getenv("DATABASE_DSN")),
		CapabilityBaseURL: firstNonEmpty(strings.TrimSpace(os.Getenv("CAPABILITY_BASE_URL")), "http://localhost:8090"),
		Model:             model,
		Artifact:          loadArtifactConfig(env),
	}, nil
}

func loadArtifactConfig(env string) ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("PHOTO_S3_ENDPOINT"))
	if endpoint == "" && strings.EqualFold(env, "local") {
		endpoint = firstNonEmpty(strings.TrimSpace(os.Getenv("MINIO_ENDPOINT")), "minio:9000")
	}
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("PHOTO_S3_BUCKET")), "siteforge-photos"),
		UseSSL:    strings.EqualFold(strings.TrimSpace(os.Getenv("PHOTO_S3_USE_SSL")), "true"),
		PublicURL: strings.TrimSpace(os.Getenv("PHOTO_S3_PUBLIC_URL")),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
