// Package llm is a minimal client for an OpenAI-compatible chat
// completions endpoint. It carries no retry or streaming logic; callers
// decide what an upstream failure means for their response.
package llm
