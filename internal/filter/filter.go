// Package filter removes screenguard's own status notices from extracted
// text. The capture surface sees the whole screen, including the overlay's
// transient toasts. Without this pass the assessor could flag the app's own
// UI text as a scam indicator.
package filter

import "strings"

// statusNotices are the user-facing strings screenguard itself puts on
// screen. Kept in sync with the overlay and console presenters.
var statusNotices = []string{
	"화면 스캔을 시작합니다...",
	"화면 캡처 준비 완료.",
	"화면 캡처 권한을 설정해주세요.",
	"AI 분석 중...",
	"의심스러운 내용을 찾지 못했습니다.",
	"스캔 중 오류가 발생했습니다.",
	"위험 키워드가 발견되었습니다.",
}

// Filter drops lines matching a known self-emitted notice. Pure,
// order-preserving, stable.
func Filter(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !isStatusNotice(line) {
			out = append(out, line)
		}
	}
	return out
}

// isStatusNotice matches in two passes: exact trimmed equality, then a
// normalized comparison with trailing punctuation and ellipsis runs
// stripped from both sides. OCR commonly eats or multiplies trailing dots.
func isStatusNotice(line string) bool {
	trimmed := strings.TrimSpace(line)
	for _, notice := range statusNotices {
		if trimmed == notice {
			return true
		}
	}
	normalized := normalize(trimmed)
	for _, notice := range statusNotices {
		if normalized == normalize(notice) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".…!?")
}
