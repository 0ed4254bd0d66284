// Package agents holds the static registry of consultant personas.
//
// Each persona is plain configuration: a name, an avatar, a Spanish
// system prompt, a welcome message, and example questions. The registry
// is compiled in and never changes at runtime; system prompts are never
// serialized to clients.
package agents
