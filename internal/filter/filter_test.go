package filter

import (
	"reflect"
	"testing"
)

func TestFilterDropsOwnNotices(t *testing.T) {
	in := []string{"화면 스캔을 시작합니다...", "고수익 알바", "AI 분석 중"}
	got := Filter(in)
	want := []string{"고수익 알바"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter(%q) = %q, want %q", in, got, want)
	}
}

func TestFilterNormalizedEllipsisVariants(t *testing.T) {
	cases := []struct {
		line string
		drop bool
	}{
		{"화면 스캔을 시작합니다", true},
		{"화면 스캔을 시작합니다.....", true},
		{"화면 스캔을 시작합니다…", true},
		{"  AI 분석 중...  ", true},
		{"화면 스캔을 시작합니다 지금", false},
		{"고수익 보장", false},
	}
	for _, tc := range cases {
		got := len(Filter([]string{tc.line})) == 0
		if got != tc.drop {
			t.Errorf("Filter(%q): dropped = %v, want %v", tc.line, got, tc.drop)
		}
	}
}

func TestFilterPreservesOrderAndInput(t *testing.T) {
	in := []string{"b", "AI 분석 중...", "a", "b"}
	inCopy := append([]string(nil), in...)

	got := Filter(in)
	want := []string{"b", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(in, inCopy) {
		t.Error("Filter must not mutate its input")
	}
}
