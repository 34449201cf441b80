package config

import (
	"os"
	"testing"
	"time"
)

// Test environment variable keys.
const (
	testEnvPostgresDSN = "POSTGRES_DSN"
	testEnvSubreddits  = "SUBREDDITS"
	testEnvBatchSize   = "WORKER_BATCH_SIZE"
)

// Test values.
const (
	testPostgresDSN  = "postgres://localhost/test"
	testErrLoad      = "Load() error = %v"
	testDefaultEnv   = "local"
	testDefaultModel = "gpt-4o-mini"
)

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv(testEnvPostgresDSN)

	_, err := Load()
	if err == nil {
		t.Error("expected error for missing required env vars")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)
	t.Setenv(testEnvSubreddits, "SideProject,startups,AppIdeas")
	t.Setenv(testEnvBatchSize, "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.PostgresDSN != testPostgresDSN {
		t.Errorf("PostgresDSN = %q, want %q", cfg.PostgresDSN, testPostgresDSN)
	}

	if len(cfg.Subreddits) != 3 || cfg.Subreddits[1] != "startups" {
		t.Errorf("Subreddits = %v, want three entries", cfg.Subreddits)
	}

	if cfg.WorkerBatchSize != 25 {
		t.Errorf("WorkerBatchSize = %d, want 25", cfg.WorkerBatchSize)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != testDefaultEnv {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, testDefaultEnv)
	}

	if cfg.LLMModel != testDefaultModel {
		t.Errorf("LLMModel = %q, want %q", cfg.LLMModel, testDefaultModel)
	}

	if cfg.WorkerPollInterval != 10*time.Second {
		t.Errorf("WorkerPollInterval = %v, want 10s", cfg.WorkerPollInterval)
	}

	if cfg.ActivityThreshold != 25 {
		t.Errorf("ActivityThreshold = %v, want 25", cfg.ActivityThreshold)
	}

	if cfg.WeightCommunityActivity != 0.25 {
		t.Errorf("WeightCommunityActivity = %v, want 0.25", cfg.WeightCommunityActivity)
	}

	if cfg.ConceptEmbeddingsEnabled {
		t.Error("ConceptEmbeddingsEnabled should default to false")
	}
}
