package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultModel      = "gpt-4"
	DefaultOutputPath = "docs/review_report.md"
)

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	envFile := os.Getenv(strings.ToUpper(KeyEnvFile))
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	_ = godotenv.Load(envFile)
	if root != nil {
		flags := root.PersistentFlags()
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = viper.BindPFlag(key, f)
			}
		}
	}
	setDefaults()
}

func setDefaults() {
	viper.SetDefault(KeyModel, DefaultModel)
	viper.SetDefault(KeyOutputPath, DefaultOutputPath)
	viper.SetDefault(KeyRepoPath, ".")
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyLLMCallTimeout, "")
	viper.SetDefault(KeyGitTimeout, "")
	viper.SetDefault(KeyMaxPromptTokens, 8192)
}

func OpenAIAPIKey() string   { return strings.TrimSpace(viper.GetString(KeyOpenAIAPIKey)) }
func OpenAIBaseURL() string  { return strings.TrimSpace(viper.GetString(KeyOpenAIBaseURL)) }
func Model() string          { return viper.GetString(KeyModel) }
func OutputPath() string     { return viper.GetString(KeyOutputPath) }
func RepoPath() string       { return viper.GetString(KeyRepoPath) }
func LogLevel() string       { return viper.GetString(KeyLogLevel) }
func LLMCallTimeout() string { return viper.GetString(KeyLLMCallTimeout) }
func GitTimeout() string     { return viper.GetString(KeyGitTimeout) }
func MaxPromptTokens() int   { return viper.GetInt(KeyMaxPromptTokens) }
