package review

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const (
	approxCharsPerToken = 4
	fallbackEncoding    = "cl100k_base"
)

var (
	tokenEncodersMu sync.Mutex
	tokenEncoders   = map[string]*tiktoken.Tiktoken{}

	estimateTokensFunc = defaultEstimateTokens
)

func estimateTokens(model, text string) int {
	return estimateTokensFunc(model, text)
}

func defaultEstimateTokens(model, text string) int {
	enc := getTokenEncoder(model)
	if enc != nil {
		tokens := enc.Encode(text, nil, nil)
		if len(tokens) > 0 {
			return len(tokens)
		}
	}
	return max(1, len(text)/approxCharsPerToken)
}

// getTokenEncoder returns the encoding tiktoken associates with model, or
// cl100k_base for models it does not know. Results, including nil, are cached.
func getTokenEncoder(model string) *tiktoken.Tiktoken {
	tokenEncodersMu.Lock()
	defer tokenEncodersMu.Unlock()
	if enc, ok := tokenEncoders[model]; ok {
		return enc
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, _ = tiktoken.GetEncoding(fallbackEncoding)
	}
	tokenEncoders[model] = enc
	return enc
}
