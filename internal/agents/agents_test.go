package agents_test

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/distlab-cli/internal/agents"
)

func roundtrip(t *testing.T, in string) (agents.Document, []string) {
	t.Helper()
	out, warnings := agents.Standardize(in)
	var doc agents.Document
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("standardized output is not valid YAML: %v\n%s", err, out)
	}
	return doc, warnings
}

func TestEmptyYAMLLoadsFallback(t *testing.T) {
	out, warnings := agents.Standardize("   \n")
	if out != agents.FallbackYAML {
		t.Fatalf("expected fallback template")
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestUnparseableYAMLReturnedUnchanged(t *testing.T) {
	in := "agents: [unclosed"
	out, warnings := agents.Standardize(in)
	if out != in {
		t.Fatalf("input should come back unchanged")
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a parse warning")
	}
}

func TestTopLevelListWrapped(t *testing.T) {
	doc, _ := roundtrip(t, "- name: Summarizer\n  model: claude-3-haiku\n")
	if len(doc.Agents) != 1 {
		t.Fatalf("agents = %+v", doc.Agents)
	}
	a := doc.Agents[0]
	if a.ID != "summarizer" {
		t.Fatalf("id = %q", a.ID)
	}
	if a.Provider != "anthropic" {
		t.Fatalf("provider = %q", a.Provider)
	}
	if a.MaxTokens != 12000 {
		t.Fatalf("max_tokens = %d", a.MaxTokens)
	}
	if doc.Version != "1.0" {
		t.Fatalf("version = %q", doc.Version)
	}
}

func TestStepsConversion(t *testing.T) {
	in := `steps:
  - name: Extract
    llm: gemini-1.5-flash
    prompt: pull the facts
  - name: Write
    prompt: draft the report
`
	doc, warnings := roundtrip(t, in)
	if len(doc.Agents) != 2 {
		t.Fatalf("agents = %d", len(doc.Agents))
	}
	if doc.Agents[0].Provider != "gemini" {
		t.Fatalf("provider = %q", doc.Agents[0].Provider)
	}
	if doc.Agents[0].Input.Source != "manual" || doc.Agents[1].Input.Source != "previous" {
		t.Fatalf("input sources = %q, %q", doc.Agents[0].Input.Source, doc.Agents[1].Input.Source)
	}
	if got := doc.Pipelines["default"]; len(got) != 2 || got[0] != "extract" {
		t.Fatalf("pipeline = %v", got)
	}
	joined := strings.Join(warnings, "; ")
	if !strings.Contains(joined, "steps") {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestSingleAgentDetection(t *testing.T) {
	in := "name: Solo\nprompt: do the thing\nmodel: grok-2\n"
	doc, _ := roundtrip(t, in)
	if len(doc.Agents) != 1 {
		t.Fatalf("agents = %d", len(doc.Agents))
	}
	if doc.Agents[0].Provider != "grok" {
		t.Fatalf("provider = %q", doc.Agents[0].Provider)
	}
	if doc.Agents[0].PromptTemplate != "do the thing" {
		t.Fatalf("prompt = %q", doc.Agents[0].PromptTemplate)
	}
}

func TestDuplicateIDsRenamed(t *testing.T) {
	in := `agents:
  - id: worker
    prompt: first
  - id: worker
    prompt: second
`
	doc, warnings := roundtrip(t, in)
	if len(doc.Agents) != 2 {
		t.Fatalf("agents = %d", len(doc.Agents))
	}
	if doc.Agents[0].ID == doc.Agents[1].ID {
		t.Fatalf("duplicate ids survived: %q", doc.Agents[0].ID)
	}
	if !strings.HasPrefix(doc.Agents[1].ID, "worker_") {
		t.Fatalf("renamed id = %q", doc.Agents[1].ID)
	}
	joined := strings.Join(warnings, "; ")
	if !strings.Contains(joined, "Duplicate") {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestInvalidMaxTokensDefaulted(t *testing.T) {
	in := "agents:\n  - id: a\n    max_tokens: lots\n"
	doc, _ := roundtrip(t, in)
	if doc.Agents[0].MaxTokens != 12000 {
		t.Fatalf("max_tokens = %d", doc.Agents[0].MaxTokens)
	}
}

func TestSlugify(t *testing.T) {
	if got := agents.Slugify("  My Fancy Agent!! "); got != "my_fancy_agent" {
		t.Fatalf("slug = %q", got)
	}
	if got := agents.Slugify("日本語"); !strings.HasPrefix(got, "agent_") {
		t.Fatalf("non-ascii slug = %q", got)
	}
}
