package review

import "strings"

// BuildPrompt embeds diff, unchanged, into the review instructions.
func BuildPrompt(diff string) string {
	return strings.Replace(reviewPromptTemplate, "{{.Diff}}", diff, 1)
}
