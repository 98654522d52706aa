package config

const (
	KeyOpenAIAPIKey    = "openai_api_key"
	KeyOpenAIBaseURL   = "openai_base_url"
	KeyModel           = "review_model"
	KeyOutputPath      = "output_path"
	KeyRepoPath        = "repo_path"
	KeyLogLevel        = "log_level"
	KeyLLMCallTimeout  = "llm_call_timeout"
	KeyGitTimeout      = "git_timeout"
	KeyMaxPromptTokens = "max_prompt_tokens"
	KeyEnvFile         = "env_file"
)

// flagKeys maps root command flag names onto config keys.
var flagKeys = map[string]string{
	"base-url":          KeyOpenAIBaseURL,
	"model":             KeyModel,
	"output":            KeyOutputPath,
	"repo":              KeyRepoPath,
	"log-level":         KeyLogLevel,
	"llm-timeout":       KeyLLMCallTimeout,
	"git-timeout":       KeyGitTimeout,
	"max-prompt-tokens": KeyMaxPromptTokens,
}
