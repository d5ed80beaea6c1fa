// Package provider resolves LLM provider credentials for display and mode
// selection. No network calls happen here or anywhere else: a session without
// any configured key simply runs in offline mode.
package provider

import (
	"os"
	"strings"
)

// Providers is the supported provider list, in display order.
var Providers = []string{"openai", "gemini", "anthropic", "grok"}

var envKeys = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"grok":      "XAI_API_KEY",
}

// EnvVar returns the environment variable a provider's key is read from.
func EnvVar(provider string) string {
	return envKeys[provider]
}

// Status describes where a provider's key came from, if anywhere.
type Status struct {
	Provider   string `json:"provider"`
	Source     string `json:"source"` // "env", "session", or "missing"
	Masked     string `json:"masked"`
	Configured bool   `json:"configured"`
}

// StatusFor resolves one provider. Environment wins over the session key.
func StatusFor(provider, sessionKey string) Status {
	if key := os.Getenv(envKeys[provider]); key != "" {
		return Status{Provider: provider, Source: "env", Masked: Mask(key), Configured: true}
	}
	if sessionKey != "" {
		return Status{Provider: provider, Source: "session", Masked: Mask(sessionKey), Configured: true}
	}
	return Status{Provider: provider, Source: "missing"}
}

// Statuses resolves every provider; keyFn supplies session keys by provider.
func Statuses(keyFn func(provider string) string) []Status {
	out := make([]Status, 0, len(Providers))
	for _, p := range Providers {
		out = append(out, StatusFor(p, keyFn(p)))
	}
	return out
}

// Offline reports whether no provider is configured at all.
func Offline(statuses []Status) bool {
	for _, s := range statuses {
		if s.Configured {
			return false
		}
	}
	return true
}

// Mask hides the middle of a key, keeping four characters on each end.
func Mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// DetectFromModel guesses the provider from a model name. Unknown models
// default to openai.
func DetectFromModel(model string) string {
	m := strings.TrimSpace(strings.ToLower(model))
	switch {
	case strings.HasPrefix(m, "gpt-") || strings.Contains(m, "openai"):
		return "openai"
	case strings.HasPrefix(m, "gemini-") || strings.Contains(m, "google"):
		return "gemini"
	case strings.HasPrefix(m, "claude") || strings.HasPrefix(m, "anthropic:"):
		return "anthropic"
	case strings.HasPrefix(m, "grok-") || strings.Contains(m, "xai"):
		return "grok"
	default:
		return "openai"
	}
}
