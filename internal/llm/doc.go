// Package llm provides the language model clients behind the spending advisor.
// It supports Gemini, OpenAI and Anthropic, with retry logic, rate limiting,
// and response caching.
package llm
