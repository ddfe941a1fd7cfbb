package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

type Config struct {
	// ───── Infrastructure ─────
	DatabaseURL       string
	MessageStoreTable string
	KafkaBrokers      []string
	DispatchTopic     string
	KafkaGroupID      string
	RedisAddr         string
	CacheTTL          time.Duration

	// ───── Runtime ─────
	HTTPAddr       string
	ObsHTTPAddr    string
	ServiceName    string
	LogLevel       string
	RequestTimeout time.Duration

	// ───── Pipeline ─────
	MaxContentsChars     int
	ProcessorConcurrency int

	// ───── Rate Limiting ─────
	RateLimitRequests int
	RateLimitWindow   string

	// ───── Observability ─────
	TracingEnabled bool
	JaegerURL      string
}

// LoadIngress reads the gateway configuration. The topic and table are required.
func LoadIngress() *Config {
	cfg := loadShared("message-ingress", ":8090")

	cfg.HTTPAddr = fixPort(getEnv("HTTP_ADDR", ":8080"))
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 15*time.Second)
	cfg.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", 0)
	cfg.RateLimitWindow = getEnv("RATE_LIMIT_WINDOW", "1m")

	return cfg
}

// LoadProcessor reads the consumer configuration. The topic and table are required.
func LoadProcessor() *Config {
	cfg := loadShared("message-processor", ":8091")

	cfg.KafkaGroupID = getEnv("KAFKA_GROUP_ID", "message-processor")
	cfg.ProcessorConcurrency = getEnvInt("PROCESSOR_CONCURRENCY", 1)
	if cfg.ProcessorConcurrency < 1 {
		cfg.ProcessorConcurrency = 1
	}

	return cfg
}

func loadShared(serviceName, obsAddr string) *Config {
	return &Config{
		DatabaseURL:       mustEnv("DATABASE_URL"),
		MessageStoreTable: mustEnv("MESSAGE_STORE_TABLE"),
		KafkaBrokers:      getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
		DispatchTopic:     mustEnv("DISPATCH_MESSAGE_TOPIC"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CacheTTL:          getEnvDuration("CACHE_TTL", time.Hour),

		MaxContentsChars: getEnvInt("CONTENTS_MAX_CHARS", domain.DefaultMaxContentsChars),

		ObsHTTPAddr: fixPort(getEnv("OBS_HTTP_ADDR", obsAddr)),
		ServiceName: getEnv("SERVICE_NAME", serviceName),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		JaegerURL:      getEnv("JAEGER_URL", "http://localhost:14268/api/traces"),
	}
}

// Limits returns the truncation limits for incoming requests.
func (c *Config) Limits() domain.Limits {
	l := domain.DefaultLimits()
	if c.MaxContentsChars > 0 {
		l.Contents = c.MaxContentsChars
	}
	return l
}

func fixPort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env: %s", k)
	}
	return v
}

func getEnv(k, d string) string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return v
}

func getEnvInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int env %s: %v", k, err)
	}
	return i
}

func getEnvBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.ToLower(v) == "true"
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}

	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration env %s: %v", k, err)
	}
	return dur
}

func getEnvSlice(k string, d []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	return strings.Split(v, ",")
}
