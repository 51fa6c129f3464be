package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const DefaultMaxUploadBytes int64 = 50 * 1024 * 1024

type Config struct {
	App struct {
		Port          string   `mapstructure:"port"`
		Env           string   `mapstructure:"env"`
		PublicBaseURL string   `mapstructure:"public_base_url"`
		CORSOrigins   []string `mapstructure:"cors_origins"`
	} `mapstructure:"app"`
	Storage struct {
		UploadDir string `mapstructure:"upload_dir"`
	} `mapstructure:"storage"`
	Media struct {
		MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
		ProbeTimeout   time.Duration `mapstructure:"probe_timeout"`
		ProbeWorkers   int64         `mapstructure:"probe_workers"`
		FFprobeBinary  string        `mapstructure:"ffprobe_binary"`
	} `mapstructure:"media"`
	Relay struct {
		Enabled bool          `mapstructure:"enabled"`
		URL     string        `mapstructure:"url"`
		Token   string        `mapstructure:"token"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"relay"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		InfoTTL  time.Duration `mapstructure:"info_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Tracing struct {
		OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
		Insecure     bool    `mapstructure:"insecure"`
		SampleRatio  float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"tracing"`
}

// TracingActive reports whether spans are exported.
func (c Config) TracingActive() bool {
	return strings.TrimSpace(c.Tracing.OTLPEndpoint) != ""
}

// RelayActive reports whether relay calls leave the process.
func (c Config) RelayActive() bool {
	return c.Relay.Enabled && strings.TrimSpace(c.Relay.URL) != ""
}

func LoadConfig(paths ...string) (cfg Config, err error) {
	v := viper.New()

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetDefault("app.port", "8000")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("media.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("media.probe_timeout", 30*time.Second)
	v.SetDefault("media.probe_workers", 2)
	v.SetDefault("media.ffprobe_binary", "ffprobe")
	v.SetDefault("relay.timeout", 5*time.Second)
	v.SetDefault("redis.info_ttl", time.Hour)
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "ENV")
	v.BindEnv("app.public_base_url", "PUBLIC_BASE_URL")
	v.BindEnv("app.cors_origins", "CORS_ORIGINS")
	v.BindEnv("storage.upload_dir", "UPLOAD_DIR")
	v.BindEnv("media.max_upload_bytes", "MAX_UPLOAD_BYTES")
	v.BindEnv("media.probe_timeout", "PROBE_TIMEOUT")
	v.BindEnv("media.probe_workers", "PROBE_WORKERS")
	v.BindEnv("media.ffprobe_binary", "FFPROBE_BINARY")
	v.BindEnv("relay.enabled", "EXTERNAL_ENABLED")
	v.BindEnv("relay.url", "SCREEN_SERVICE_URL")
	v.BindEnv("relay.token", "SCREEN_SERVICE_TOKEN")
	v.BindEnv("relay.timeout", "SCREEN_SERVICE_TIMEOUT")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.info_ttl", "REDIS_INFO_TTL")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")
	v.BindEnv("tracing.otlp_endpoint", "OTLP_ENDPOINT")
	v.BindEnv("tracing.insecure", "OTLP_INSECURE")
	v.BindEnv("tracing.sample_ratio", "TRACE_SAMPLE_RATIO")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}
	if cfg.Media.MaxUploadBytes <= 0 {
		cfg.Media.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Media.ProbeWorkers <= 0 {
		cfg.Media.ProbeWorkers = 1
	}
	return cfg, nil
}
