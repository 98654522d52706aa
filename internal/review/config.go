package review

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

type Config struct {
	APIKey          string
	BaseURL         string // empty selects the provider default
	ModelName       string
	CallTimeout     time.Duration
	MaxPromptTokens int // warn-only; prompts are never truncated
	HTTPClient      *http.Client
	Logger          logr.Logger
}
