// Package model defines the provider-neutral reasoning interface used by
// task runners, plus the normalized message, tool-spec and tool-call types
// exchanged with it. Concrete adapters for OpenAI and Anthropic live in the
// subpackages model/openai and model/anthropic.
package model
