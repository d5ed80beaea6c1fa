// Package agents normalizes nonstandard agent-definition YAML into the
// canonical schema: a versioned wrapper, a list of agents, and named
// pipelines. The transform is best effort and never fails hard; problems
// come back as warnings alongside the closest standardized form.
package agents

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/distlab-cli/internal/provider"
)

const defaultMaxTokens = 12000

// IOBlock describes where an agent reads its input from.
type IOBlock struct {
	Format string `yaml:"format"`
	Source string `yaml:"source"`
}

// OutBlock describes the agent output shape.
type OutBlock struct {
	Format string `yaml:"format"`
}

// Agent is one normalized agent definition.
type Agent struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	MaxTokens      int      `yaml:"max_tokens"`
	Temperature    *float64 `yaml:"temperature,omitempty"`
	Input          IOBlock  `yaml:"input"`
	Output         OutBlock `yaml:"output"`
	PromptTemplate string   `yaml:"prompt_template"`
}

// Document is the canonical agents file.
type Document struct {
	Version      string                    `yaml:"version"`
	App          map[string]any            `yaml:"app"`
	Providers    map[string]map[string]any `yaml:"providers"`
	SystemPrompt map[string]any            `yaml:"system_prompt"`
	Agents       []Agent                   `yaml:"agents"`
	Pipelines    map[string][]string       `yaml:"pipelines"`
}

// FallbackYAML is the template served when the input is empty.
const FallbackYAML = `version: "1.0"
app:
  name: "DistLab"
  default_language: "en"
  default_max_tokens: 12000
providers:
  openai: {}
  gemini: {}
  anthropic: {}
  grok: {}
system_prompt:
  source: "SKILL.md"
agents:
  - id: "dist_summary"
    name: "Distribution Summary"
    description: "Summarize distribution data and highlight anomalies."
    provider: "openai"
    model: "gpt-4o-mini"
    max_tokens: 12000
    input:
      format: "markdown"
      source: "dataset"
    output:
      format: "markdown"
    prompt_template: |
      You are analyzing a medical device distribution dataset.
      Produce:
      1) Executive summary
      2) Top suppliers/customers/models/licenses
      3) Time anomalies and possible explanations
      4) Compliance risks and data quality issues
pipelines:
  default:
    - dist_summary
`

// Standardize converts nonstandard YAML to the canonical schema, returning
// the standardized YAML text and any warnings. Unparseable input comes back
// unchanged with a warning; empty input yields the fallback template.
func Standardize(rawYAML string) (string, []string) {
	var warnings []string
	if strings.TrimSpace(rawYAML) == "" {
		return FallbackYAML, []string{"Empty YAML; loaded fallback standard template."}
	}

	var obj any
	if err := yaml.Unmarshal([]byte(rawYAML), &obj); err != nil {
		return rawYAML, []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if obj == nil {
		return FallbackYAML, []string{"Empty YAML; loaded fallback standard template."}
	}

	// A top-level list is taken to be the agents themselves.
	root, ok := obj.(map[string]any)
	if !ok {
		if list, isList := obj.([]any); isList {
			warnings = append(warnings, "Top-level YAML is a list; wrapping into canonical schema under 'agents'.")
			root = map[string]any{"agents": list}
		} else {
			return rawYAML, []string{"Unsupported top-level YAML shape; expected mapping or list."}
		}
	}

	doc := Document{}
	if _, hasSteps := root["steps"]; hasSteps && root["agents"] == nil {
		warnings = append(warnings, "Detected 'steps' format; converting to agents + default pipeline.")
		root = convertSteps(root)
	}

	doc.Version = stringValue(root["version"])
	if doc.Version == "" {
		doc.Version = "1.0"
		warnings = append(warnings, "Missing 'version'; defaulted to 1.0.")
	}
	if app, ok := root["app"].(map[string]any); ok {
		doc.App = app
	} else {
		doc.App = map[string]any{"name": "DistLab", "default_language": "en", "default_max_tokens": defaultMaxTokens}
		warnings = append(warnings, "Missing 'app'; added defaults.")
	}
	doc.Providers = providerBlocks(root["providers"])
	if doc.Providers == nil {
		doc.Providers = make(map[string]map[string]any, len(provider.Providers))
		for _, p := range provider.Providers {
			doc.Providers[p] = map[string]any{}
		}
		warnings = append(warnings, "Missing 'providers'; added placeholders.")
	}
	if sp, ok := root["system_prompt"].(map[string]any); ok {
		doc.SystemPrompt = sp
	} else {
		doc.SystemPrompt = map[string]any{"source": "SKILL.md"}
		warnings = append(warnings, "Missing 'system_prompt'; set source to SKILL.md.")
	}

	rawAgents, warnings := collectAgents(root, warnings)
	seen := make(map[string]bool)
	for _, ra := range rawAgents {
		a, w := normalizeAgent(ra, seen)
		warnings = append(warnings, w...)
		doc.Agents = append(doc.Agents, a)
	}

	doc.Pipelines = pipelines(root["pipelines"])
	if len(doc.Pipelines) == 0 {
		ids := make([]string, 0, len(doc.Agents))
		for _, a := range doc.Agents {
			ids = append(ids, a.ID)
		}
		doc.Pipelines = map[string][]string{"default": ids}
		warnings = append(warnings, "Missing 'pipelines'; generated default pipeline using agent order.")
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return rawYAML, append(warnings, fmt.Sprintf("marshal standardized YAML: %v", err))
	}
	return string(out), warnings
}

// convertSteps rebuilds a bare steps file as a full canonical document.
func convertSteps(root map[string]any) map[string]any {
	steps, _ := root["steps"].([]any)
	var agents []any
	var pipeline []any
	for i, s := range steps {
		step, ok := s.(map[string]any)
		if !ok {
			continue
		}
		name := firstString(step, "name", "id")
		if name == "" {
			name = fmt.Sprintf("Step %d", i+1)
		}
		id := Slugify(firstString(step, "id", "name"))
		model := firstString(step, "model", "llm")
		if model == "" {
			model = "gpt-4o-mini"
		}
		prov := stringValue(step["provider"])
		if prov == "" {
			prov = provider.DetectFromModel(model)
		}
		source := "manual"
		if i > 0 {
			source = "previous"
		}
		agents = append(agents, map[string]any{
			"id":              id,
			"name":            name,
			"description":     stringValue(step["description"]),
			"provider":        prov,
			"model":           model,
			"max_tokens":      coerceTokens(step["max_tokens"], step["maxTokens"]),
			"input":           map[string]any{"format": "markdown", "source": source},
			"output":          map[string]any{"format": "markdown"},
			"prompt_template": firstString(step, "prompt", "instruction", "template"),
		})
		pipeline = append(pipeline, id)
	}
	providers := make(map[string]any, len(provider.Providers))
	for _, p := range provider.Providers {
		providers[p] = map[string]any{}
	}
	return map[string]any{
		"version":       "1.0",
		"app":           map[string]any{"name": "DistLab", "default_language": "en", "default_max_tokens": defaultMaxTokens},
		"providers":     providers,
		"system_prompt": map[string]any{"source": "SKILL.md"},
		"agents":        agents,
		"pipelines":     map[string]any{"default": pipeline},
	}
}

// collectAgents finds the agents list, detecting a single-agent document
// when no explicit list exists.
func collectAgents(root map[string]any, warnings []string) ([]map[string]any, []string) {
	switch v := root["agents"].(type) {
	case []any:
		var out []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out, warnings
	case map[string]any:
		warnings = append(warnings, "'agents' is a dict; wrapping into list.")
		return []map[string]any{v}, warnings
	}

	if prompt := firstString(root, "prompt", "instruction", "template"); prompt != "" {
		warnings = append(warnings, "No 'agents' list found; converted single-agent YAML into canonical schema.")
		agent := map[string]any{
			"id":              firstString(root, "id", "name"),
			"name":            stringValue(root["name"]),
			"description":     stringValue(root["description"]),
			"provider":        stringValue(root["provider"]),
			"model":           stringValue(root["model"]),
			"max_tokens":      coerceTokens(root["max_tokens"], root["maxTokens"]),
			"input":           map[string]any{"format": "markdown", "source": "manual"},
			"output":          map[string]any{"format": "markdown"},
			"prompt_template": prompt,
		}
		return []map[string]any{agent}, warnings
	}
	warnings = append(warnings, "No 'agents' found; created empty 'agents' list.")
	return nil, warnings
}

// normalizeAgent fills defaults and uniquifies the agent id.
func normalizeAgent(a map[string]any, seen map[string]bool) (Agent, []string) {
	var warnings []string
	name := firstString(a, "name", "id")
	if name == "" {
		name = "Agent"
	}
	id := stringValue(a["id"])
	if id == "" {
		id = Slugify(name)
	}
	if seen[id] {
		id = fmt.Sprintf("%s_%s", id, uuid.NewString()[:6])
		warnings = append(warnings, fmt.Sprintf("Duplicate agent id detected; renamed to %s.", id))
	}
	seen[id] = true

	model := stringValue(a["model"])
	if model == "" {
		model = "gpt-4o-mini"
	}
	prov := stringValue(a["provider"])
	if prov == "" {
		prov = provider.DetectFromModel(model)
	}

	out := Agent{
		ID:             id,
		Name:           name,
		Description:    stringValue(a["description"]),
		Provider:       prov,
		Model:          model,
		MaxTokens:      coerceTokens(a["max_tokens"], a["maxTokens"], a["max_output_tokens"]),
		PromptTemplate: firstString(a, "prompt_template", "prompt", "instruction"),
		Input:          IOBlock{Format: "markdown", Source: "previous"},
		Output:         OutBlock{Format: "markdown"},
	}
	if t, ok := floatValue(a["temperature"]); ok {
		out.Temperature = &t
	}
	if in, ok := a["input"].(map[string]any); ok {
		if f := stringValue(in["format"]); f != "" {
			out.Input.Format = f
		}
		if s := stringValue(in["source"]); s != "" {
			out.Input.Source = s
		}
	}
	if ob, ok := a["output"].(map[string]any); ok {
		if f := stringValue(ob["format"]); f != "" {
			out.Output.Format = f
		}
	}
	return out, warnings
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)
var multiUnderscore = regexp.MustCompile(`_+`)

// Slugify lowercases and collapses a name into an id-safe token, generating
// a random id when nothing survives.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "_")
	s = strings.Trim(multiUnderscore.ReplaceAllString(s, "_"), "_")
	if s == "" {
		return "agent_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	return s
}

func providerBlocks(v any) map[string]map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]map[string]any, len(m))
	for k, inner := range m {
		if block, ok := inner.(map[string]any); ok {
			out[k] = block
		} else {
			out[k] = map[string]any{}
		}
	}
	return out
}

func pipelines(v any) map[string][]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, inner := range m {
		list, ok := inner.([]any)
		if !ok {
			continue
		}
		var ids []string
		for _, item := range list {
			if s := stringValue(item); s != "" {
				ids = append(ids, s)
			}
		}
		out[k] = ids
	}
	return out
}

func stringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringValue(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func floatValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

func coerceTokens(vals ...any) int {
	for _, v := range vals {
		switch x := v.(type) {
		case int:
			if x > 0 {
				return x
			}
		case float64:
			if x > 0 {
				return int(x)
			}
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultMaxTokens
}
