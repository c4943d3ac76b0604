// Package openai implements the ai interfaces against OpenAI-compatible
// embedding services (OpenAI, Ollama, LocalAI, vLLM, and similar).
package openai
