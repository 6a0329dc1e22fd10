package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	Gemini GeminiConfig
	Asset  AssetConfig
	Store  StoreConfig
}

// GeminiConfig configures the credentialed reasoning/generation provider.
// An empty APIKey is an expected state: refine degrades to the simple
// prompt and generation routes to the keyless provider.
type GeminiConfig struct {
	APIKey      string
	ReasonModel string
	ImageModel  string
}

// Configured reports whether the rich provider can be used at all.
func (g GeminiConfig) Configured() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

type AssetConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type StoreConfig struct {
	Path string
	DSN  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
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

	return &Config{
		Port: *port,
		Env:  env,
		Gemini: GeminiConfig{
			APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			ReasonModel: firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_REASON_MODEL")), "gemini-2.5-flash"),
			ImageModel:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_IMAGE_MODEL")), "gemini-2.5-flash-image-preview"),
		},
		Asset: loadAssetConfig(env),
		Store: StoreConfig{
			Path: firstNonEmpty(strings.TrimSpace(os.Getenv("PROJECT_STORE_PATH")), "data/projects.json"),
			DSN:  strings.TrimSpace(os.Getenv("PROJECT_STORE_PG_DSN")),
		},
	}, nil
}

func loadAssetConfig(env string) AssetConfig {
	endpoint := resolveAssetEndpoint(env)
	return AssetConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ASSET_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ASSET_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ASSET_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ASSET_S3_BUCKET")), "promptcanvas-assets"),
		UseSSL:    resolveAssetUseSSL(env),
		PublicURL: strings.TrimSpace(os.Getenv("ASSET_PUBLIC_URL")),
	}
}

func resolveAssetEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("ASSET_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("ASSET_S3_ENDPOINT"))
}

func resolveAssetUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("ASSET_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
