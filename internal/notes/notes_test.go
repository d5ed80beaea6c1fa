package notes_test

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/distlab-cli/internal/notes"
)

func TestExtractKeywordsPatternsFirst(t *testing.T) {
	text := "Shipment 12345678901234 for model AB1234 delayed. Hospital keeps asking. Hospital follow-up pending."
	kws := notes.ExtractKeywords(text, 12)
	if len(kws) == 0 {
		t.Fatalf("no keywords")
	}
	if kws[0] != "12345678901234" {
		t.Fatalf("pattern matches should lead: %v", kws)
	}
	if !contains(kws, "AB1234") {
		t.Fatalf("model code missing: %v", kws)
	}
	if !contains(kws, "Hospital") {
		t.Fatalf("frequent token missing: %v", kws)
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	if kws := notes.ExtractKeywords("   ", 12); kws != nil {
		t.Fatalf("expected nil, got %v", kws)
	}
}

func TestExtractKeywordsLimit(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta theta kappa ", 3)
	kws := notes.ExtractKeywords(text, 3)
	if len(kws) != 3 {
		t.Fatalf("len = %d", len(kws))
	}
}

func TestOrganizeEnglish(t *testing.T) {
	md := notes.Organize("device AB1234 recalled", "en")
	if !strings.Contains(md, "# Note Organizer (Offline Mode)") {
		t.Fatalf("missing header:\n%s", md)
	}
	if !strings.Contains(md, "AB1234") {
		t.Fatalf("keyword missing:\n%s", md)
	}
	if !strings.Contains(md, "device AB1234 recalled") {
		t.Fatalf("original note missing")
	}
}

func TestOrganizeChinese(t *testing.T) {
	md := notes.Organize("note body", "zh-TW")
	if !strings.Contains(md, "筆記整理") {
		t.Fatalf("missing zh-TW header:\n%s", md)
	}
}

func TestHighlightLongestFirst(t *testing.T) {
	out := notes.Highlight("AB1234 and AB12", []string{"AB12", "AB1234"}, "#fff")
	if !strings.Contains(out, ">AB1234</span>") {
		t.Fatalf("longer keyword split: %s", out)
	}
	if !strings.Contains(out, ">AB12</span>") {
		t.Fatalf("short keyword not highlighted: %s", out)
	}
}

func TestHighlightNoKeywords(t *testing.T) {
	if out := notes.Highlight("text", nil, "#fff"); out != "text" {
		t.Fatalf("got %q", out)
	}
}

func contains(ss []string, want string) bool {
	for _, s := range ss {
		if s == want {
			return true
		}
	}
	return false
}
