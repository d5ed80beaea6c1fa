// Package notes is the offline note organizer: keyword extraction, a
// structured Markdown rewrite of free-form notes, and HTML keyword
// highlighting. It runs without any model call.
package notes

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	licensePattern = regexp.MustCompile(`衛部醫器[^\s,，]{6,}號`)
	udidPattern    = regexp.MustCompile(`\b\d{14}\b`)
	codePattern    = regexp.MustCompile(`\b[A-Z]{1,5}\d{2,6}\b`)
	tokenPattern   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,}|[A-Za-z]{4,}`)
)

// ExtractKeywords pulls up to max keywords from text: license numbers,
// UDID-like digit runs, and model-ish codes first, then the most frequent
// word tokens. Order is preserved and duplicates dropped.
func ExtractKeywords(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var candidates []string
	candidates = append(candidates, licensePattern.FindAllString(text, -1)...)
	candidates = append(candidates, udidPattern.FindAllString(text, -1)...)
	candidates = append(candidates, codePattern.FindAllString(text, -1)...)

	freq := make(map[string]int)
	var order []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		tok = strings.TrimSpace(tok)
		if len([]rune(tok)) < 2 {
			continue
		}
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}
	sort.SliceStable(order, func(i, j int) bool { return freq[order[i]] > freq[order[j]] })
	if len(order) > max*2 {
		order = order[:max*2]
	}
	candidates = append(candidates, order...)

	seen := make(map[string]bool, len(candidates))
	var out []string
	for _, k := range candidates {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
		if len(out) >= max {
			break
		}
	}
	return out
}

// Organize rewrites a free-form note as structured Markdown with extracted
// keywords, in English or Traditional Chinese.
func Organize(noteText, lang string) string {
	kws := ExtractKeywords(noteText, 12)
	now := time.Now().Format("2006-01-02 15:04")
	if lang == "zh-TW" {
		return fmt.Sprintf(`# 筆記整理（離線模式）

## 摘要
- 由系統在**離線模式**下整理（未呼叫外部模型）。
- 請確認重點、責任歸屬與日期是否正確。
- 產出時間：%s

## 重點
- （請人工補充）主要事件／決策／風險
- （請人工補充）下一步與期限

## 行動項目 / 負責人 / 到期日
| 行動 | 負責人 | 到期日 |
|---|---|---|
| （待補） | （待補） | （待補） |

## 風險與合規影響
- （待補）可能的合規風險、資料缺口、追蹤需求

## 待釐清問題
- （待補）哪些資訊缺少證據或需要確認？

## 擷取關鍵字
%s

## 原始筆記
`+"```text\n%s\n```\n", now, keywordList(kws, "- （無）"), strings.TrimSpace(noteText))
	}
	return fmt.Sprintf(`# Note Organizer (Offline Mode)

## Summary
- Produced in **offline mode** (no external model call).
- Please verify key points, ownership, and dates.
- Generated at: %s

## Key Points
- (Fill in) Primary events / decisions / risks
- (Fill in) Next steps and deadlines

## Actions / Owners / Due Dates
| Action | Owner | Due Date |
|---|---|---|
| (TBD) | (TBD) | (TBD) |

## Risks & Compliance Impact
- (TBD) Potential compliance risks, data gaps, follow-ups

## Open Questions
- (TBD) What claims lack evidence or require confirmation?

## Extracted Keywords
%s

## Original Notes
`+"```text\n%s\n```\n", now, keywordList(kws, "- (none)"), strings.TrimSpace(noteText))
}

func keywordList(kws []string, empty string) string {
	if len(kws) == 0 {
		return empty
	}
	lines := make([]string, 0, len(kws))
	for _, k := range kws {
		lines = append(lines, "- "+k)
	}
	return strings.Join(lines, "\n")
}

// Highlight wraps each keyword occurrence in a styled span. Longer keywords
// are replaced first so shorter ones cannot split them.
func Highlight(mdText string, keywords []string, color string) string {
	if mdText == "" || len(keywords) == 0 {
		return mdText
	}
	uniq := make(map[string]bool, len(keywords))
	var kws []string
	for _, k := range keywords {
		if strings.TrimSpace(k) == "" || uniq[k] {
			continue
		}
		uniq[k] = true
		kws = append(kws, k)
	}
	sort.SliceStable(kws, func(i, j int) bool { return len(kws[i]) > len(kws[j]) })

	// One alternation, longest first, so a short keyword can never re-match
	// inside a span inserted for a longer one.
	quoted := make([]string, 0, len(kws))
	for _, k := range kws {
		quoted = append(quoted, regexp.QuoteMeta(k))
	}
	re, err := regexp.Compile(strings.Join(quoted, "|"))
	if err != nil {
		return mdText
	}
	return re.ReplaceAllStringFunc(mdText, func(m string) string {
		return fmt.Sprintf("<span class='distlab-keyword' style='color:%s;'>%s</span>", color, m)
	})
}
