package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	HealthPort  int    `env:"HEALTH_PORT" envDefault:"8080"`

	// Reddit collector
	RedditClientID        string        `env:"REDDIT_CLIENT_ID"`
	RedditClientSecret    string        `env:"REDDIT_CLIENT_SECRET"`
	RedditUserAgent       string        `env:"REDDIT_USER_AGENT" envDefault:"opportunity-radar/1.0"`
	Subreddits            []string      `env:"SUBREDDITS" envSeparator:","`
	RedditFetchLimit      int           `env:"REDDIT_FETCH_LIMIT" envDefault:"100"`
	RedditRequestsPerMin  int           `env:"REDDIT_RPM" envDefault:"60"`
	CollectorPollInterval time.Duration `env:"COLLECTOR_POLL_INTERVAL" envDefault:"5m"`

	// LLM analysis
	LLMAPIKey       string `env:"LLM_API_KEY"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMRateLimitRPS int    `env:"LLM_RATE_LIMIT_RPS" envDefault:"1"`

	// Worker
	WorkerBatchSize    int           `env:"WORKER_BATCH_SIZE" envDefault:"10"`
	WorkerPollInterval time.Duration `env:"WORKER_POLL_INTERVAL" envDefault:"10s"`

	// Trust scoring
	ActivityThreshold       float64       `env:"TRUST_ACTIVITY_THRESHOLD" envDefault:"25"`
	ActivitySampleTTL       time.Duration `env:"TRUST_ACTIVITY_SAMPLE_TTL" envDefault:"6h"`
	WeightCommunityActivity float64       `env:"TRUST_WEIGHT_COMMUNITY_ACTIVITY" envDefault:"0.25"`
	WeightPostEngagement    float64       `env:"TRUST_WEIGHT_POST_ENGAGEMENT" envDefault:"0.20"`
	WeightTrendVelocity     float64       `env:"TRUST_WEIGHT_TREND_VELOCITY" envDefault:"0.15"`
	WeightProblemValidity   float64       `env:"TRUST_WEIGHT_PROBLEM_VALIDITY" envDefault:"0.15"`
	WeightDiscussionQuality float64       `env:"TRUST_WEIGHT_DISCUSSION_QUALITY" envDefault:"0.15"`
	WeightAIConfidence      float64       `env:"TRUST_WEIGHT_AI_CONFIDENCE" envDefault:"0.10"`

	// Concept embeddings are stored for analytics when enabled; the dedup
	// decision path stays exact fingerprint match either way.
	ConceptEmbeddingsEnabled bool   `env:"CONCEPT_EMBEDDINGS_ENABLED" envDefault:"false"`
	EmbeddingModel           string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Database pool
	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
