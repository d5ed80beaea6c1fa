package provider_test

import (
	"testing"

	"github.com/KaramelBytes/distlab-cli/internal/provider"
)

func TestStatusPrecedence(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env-1234567890")
	s := provider.StatusFor("openai", "sk-session")
	if s.Source != "env" || !s.Configured {
		t.Fatalf("status = %+v", s)
	}

	t.Setenv("GEMINI_API_KEY", "")
	s = provider.StatusFor("gemini", "g-session-key")
	if s.Source != "session" {
		t.Fatalf("status = %+v", s)
	}

	t.Setenv("XAI_API_KEY", "")
	s = provider.StatusFor("grok", "")
	if s.Source != "missing" || s.Configured {
		t.Fatalf("status = %+v", s)
	}
}

func TestOffline(t *testing.T) {
	all := []provider.Status{{Provider: "openai"}, {Provider: "grok"}}
	if !provider.Offline(all) {
		t.Fatalf("expected offline")
	}
	all[0].Configured = true
	if provider.Offline(all) {
		t.Fatalf("expected online")
	}
}

func TestMask(t *testing.T) {
	if got := provider.Mask("short"); got != "****" {
		t.Fatalf("got %q", got)
	}
	if got := provider.Mask("sk-1234567890abcd"); got != "sk-1...abcd" {
		t.Fatalf("got %q", got)
	}
}

func TestDetectFromModel(t *testing.T) {
	cases := map[string]string{
		"gpt-4o-mini":      "openai",
		"gemini-1.5-pro":   "gemini",
		"claude-3-haiku":   "anthropic",
		"anthropic:latest": "anthropic",
		"grok-2":           "grok",
		"mystery-model":    "openai",
	}
	for model, want := range cases {
		if got := provider.DetectFromModel(model); got != want {
			t.Fatalf("%s: got %q want %q", model, got, want)
		}
	}
}
