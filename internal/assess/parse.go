package assess

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractionStrategy tries to locate a JSON span in a raw model reply.
type ExtractionStrategy func(raw string) (string, bool)

// ExtractionStrategies is the ordered fallback chain applied to every
// reply; the first strategy that matches wins. Each is independently
// testable.
var ExtractionStrategies = []ExtractionStrategy{
	extractTaggedFence,
	extractAnyFence,
	extractBraceSpan,
	extractRaw,
}

var (
	taggedFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFenceRe    = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// extractTaggedFence matches a code block explicitly tagged as JSON.
func extractTaggedFence(raw string) (string, bool) {
	if m := taggedFenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// extractAnyFence matches the first fenced code block of any language.
func extractAnyFence(raw string) (string, bool) {
	if m := anyFenceRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// extractBraceSpan takes the outermost {...} span: first opening brace to
// last closing brace.
func extractBraceSpan(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}

// extractRaw is the terminal strategy: the whole reply, trimmed.
func extractRaw(raw string) (string, bool) {
	return strings.TrimSpace(raw), true
}

// extractJSON applies the strategy chain, first match wins.
func extractJSON(raw string) string {
	for _, strategy := range ExtractionStrategies {
		if span, ok := strategy(raw); ok {
			return span
		}
	}
	return strings.TrimSpace(raw)
}

// parseResponse decodes a raw model reply into a RiskAssessment, falling
// back to the heuristic classifier when strict decoding fails.
func parseResponse(raw string) RiskAssessment {
	span := extractJSON(raw)

	var a RiskAssessment
	if err := json.Unmarshal([]byte(span), &a); err == nil && strings.TrimSpace(a.RiskLevel) != "" {
		return a
	}
	return classifyHeuristically(raw)
}

// classifyHeuristically scans the lowercased reply for risk-indicating
// substrings. The result is degraded: its reason and advice are canned and
// it carries no keywords, so the keyword fallback outranks it.
func classifyHeuristically(raw string) RiskAssessment {
	lower := strings.ToLower(raw)

	level := RiskLow
	switch {
	case strings.Contains(lower, "high") || strings.Contains(lower, "위험"):
		level = RiskHigh
	case strings.Contains(lower, "medium") || strings.Contains(lower, "주의"):
		level = RiskMedium
	}

	return RiskAssessment{
		RiskLevel:         level,
		DangerousKeywords: []string{},
		Reason:            "AI 응답을 파싱할 수 없어 기본 분석을 수행했습니다.",
		Advice:            "내용을 직접 확인하세요.",
		Degraded:          true,
	}
}
