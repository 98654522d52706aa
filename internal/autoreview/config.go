package autoreview

import (
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/roivaz/diff-review/internal/config"
	"github.com/roivaz/diff-review/internal/failure"
)

// CredentialEnv names the environment variable holding the chat API key.
const CredentialEnv = "OPENAI_API_KEY"

type Config struct {
	APIKey          string
	BaseURL         string
	Model           string
	OutputPath      string
	RepoPath        string
	LogLevel        string
	LLMCallTimeout  time.Duration
	GitTimeout      time.Duration
	MaxPromptTokens int
	Logger          logr.Logger
}

func LoadConfig() (Config, error) {
	cfg := Config{
		APIKey:          config.OpenAIAPIKey(),
		BaseURL:         config.OpenAIBaseURL(),
		Model:           config.Model(),
		OutputPath:      config.OutputPath(),
		RepoPath:        config.RepoPath(),
		LogLevel:        config.LogLevel(),
		MaxPromptTokens: config.MaxPromptTokens(),
	}

	llmTimeout, err := parseDuration(config.LLMCallTimeout(), 0)
	if err != nil {
		return Config{}, failure.Configf("invalid %s: %w", config.KeyLLMCallTimeout, err)
	}
	cfg.LLMCallTimeout = llmTimeout

	gitTimeout, err := parseDuration(config.GitTimeout(), 0)
	if err != nil {
		return Config{}, failure.Configf("invalid %s: %w", config.KeyGitTimeout, err)
	}
	cfg.GitTimeout = gitTimeout

	if strings.TrimSpace(cfg.OutputPath) == "" {
		return Config{}, failure.Configf("%s must not be empty", config.KeyOutputPath)
	}
	return cfg, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	return d, nil
}
