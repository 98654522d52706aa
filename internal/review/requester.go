package review

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/roivaz/diff-review/internal/failure"
	"github.com/roivaz/diff-review/internal/logging"
)

// ErrMissingAPIKey is returned when no credential is available for the chat API.
var ErrMissingAPIKey = errors.New("chat completion API key is not set")

var statusCodeRegexp = regexp.MustCompile(`status code: (\d{3})`)

// Requester turns a diff into a review through a chat-completion model.
type Requester struct {
	llm    llms.Model
	apiKey string
	model  string
	to     time.Duration
	warnAt int
	log    logging.Logger
}

// NewRequester builds a Requester backed by the OpenAI chat-completions API.
func NewRequester(cfg Config) (*Requester, error) {
	if strings.TrimSpace(cfg.ModelName) == "" {
		return nil, failure.Configf("review model name is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, failure.Wrap(failure.CategoryAuth, "create chat client", ErrMissingAPIKey)
	}

	opts := []openai.Option{
		openai.WithModel(cfg.ModelName),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, openai.WithHTTPClient(cfg.HTTPClient))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, failure.Wrap(failure.CategoryAuth, "create chat client", err)
	}
	return newRequester(client, cfg), nil
}

func newRequester(model llms.Model, cfg Config) *Requester {
	return &Requester{
		llm:    model,
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  cfg.ModelName,
		to:     cfg.CallTimeout,
		warnAt: cfg.MaxPromptTokens,
		log:    logging.New(cfg.Logger).WithName("review"),
	}
}

// Review sends diff to the model and returns the first choice's text as-is.
func (r *Requester) Review(ctx context.Context, diff string) (string, error) {
	if r.apiKey == "" {
		return "", failure.Wrap(failure.CategoryAuth, "chat completion", ErrMissingAPIKey)
	}

	prompt := BuildPrompt(diff)
	r.log.Debug("built review prompt", "model", r.model, "prompt_bytes", len(prompt))
	if r.warnAt > 0 {
		if tokens := estimateTokens(r.model, prompt); tokens > r.warnAt {
			r.log.Warn("prompt exceeds configured token budget; the provider may reject it",
				"prompt_tokens", tokens, "max_prompt_tokens", r.warnAt)
		}
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	start := time.Now()
	resp, err := r.llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", r.annotateError(err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", failure.Wrap(failure.CategoryRemote, "chat completion", fmt.Errorf("empty choice list in response"))
	}
	r.log.Debug("chat completion finished", "elapsed", time.Since(start).String(), "choices", len(resp.Choices))
	return resp.Choices[0].Content, nil
}

func (r *Requester) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.to <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.to)
}

func (r *Requester) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Wrap(failure.CategoryRemote, "chat completion",
			fmt.Errorf("llm call timed out after %s: %w", r.to, err))
	}
	switch statusCode(err) {
	case 401, 403:
		return failure.Wrap(failure.CategoryAuth, "chat completion", err)
	}
	return failure.Wrap(failure.CategoryRemote, "chat completion", err)
}

// statusCode extracts the HTTP status the OpenAI client embeds in its errors.
func statusCode(err error) int {
	m := statusCodeRegexp.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}
