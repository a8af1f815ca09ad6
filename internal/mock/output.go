// Package mock produces deterministic stub completions: the generation itself
// is a placeholder, only the admission discipline around emitting each token
// matters.
package mock

import "fmt"

// promptTokensPerMessage is the flat accounting cost attributed to each input
// message; prompt content is never inspected.
const promptTokensPerMessage = 10

// Fragment returns the stub token for index i. Generation depends on nothing
// but the index, so any two requests produce identical token sequences.
func Fragment(i int) string {
	return fmt.Sprintf("tok%d", i)
}

// PromptTokens is the usage accounting for the input side.
func PromptTokens(messages []ChatMessage) int {
	return promptTokensPerMessage * len(messages)
}
