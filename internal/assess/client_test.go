package assess

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubGenerator counts calls and returns a scripted reply.
type stubGenerator struct {
	calls int
	reply string
	err   error
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func assertValid(t *testing.T, a RiskAssessment) {
	t.Helper()
	switch a.RiskLevel {
	case RiskHigh, RiskMedium, RiskLow:
	default:
		t.Errorf("risk level %q outside the enum", a.RiskLevel)
	}
	if a.DangerousKeywords == nil {
		t.Error("keywords must never be nil")
	}
	if a.Reason == "" || a.Advice == "" {
		t.Error("reason and advice must always be populated")
	}
}

func TestAssessBlankInputSkipsRemoteCall(t *testing.T) {
	gen := &stubGenerator{reply: validJSON}
	c := NewClient(gen)

	a := c.Assess(context.Background(), []string{"   ", ""})
	assertValid(t, a)
	if a.RiskLevel != RiskLow {
		t.Errorf("level = %q, want LOW", a.RiskLevel)
	}
	if len(a.DangerousKeywords) != 0 {
		t.Errorf("keywords = %q, want empty", a.DangerousKeywords)
	}
	if gen.calls != 0 {
		t.Errorf("remote calls = %d, want 0 for blank input", gen.calls)
	}
}

func TestAssessTransportFailureFailsSafe(t *testing.T) {
	c := NewClient(&stubGenerator{err: errors.New("quota exceeded")})

	a := c.Assess(context.Background(), []string{"수상한 내용"})
	assertValid(t, a)
	if a.RiskLevel != RiskLow || !a.Degraded {
		t.Errorf("got %+v, want degraded LOW", a)
	}
	if a.Informative() {
		t.Error("unavailable result must not be informative")
	}
}

func TestAssessMalformedRepliesNeverPanic(t *testing.T) {
	replies := []string{
		"",
		"plain prose, no json",
		`{"risk_level":`,
		"```json\nnot json at all\n```",
		"```\n[1,2,3]\n```",
		`{"risk_level":"HIGH"` + "\x00",
		strings.Repeat("{", 1000),
	}
	for _, reply := range replies {
		c := NewClient(&stubGenerator{reply: reply})
		a := c.Assess(context.Background(), []string{"본문"})
		assertValid(t, a)
	}
}

func TestAssessDecodedReplyIsInformative(t *testing.T) {
	c := NewClient(&stubGenerator{reply: validJSON})

	a := c.Assess(context.Background(), []string{"고수익", "캄보디아"})
	if !a.Informative() {
		t.Fatal("decoded reply should be informative")
	}
	if a.RiskLevel != RiskHigh {
		t.Errorf("level = %q, want HIGH", a.RiskLevel)
	}
}

func TestAssessNilGenerator(t *testing.T) {
	c := NewClient(nil)
	a := c.Assess(context.Background(), []string{"본문"})
	assertValid(t, a)
	if !a.Degraded {
		t.Error("nil generator must yield a degraded result")
	}
}

func TestClampTruncation(t *testing.T) {
	long := strings.Repeat("가", 350)
	kws := make([]string, 15)
	for i := range kws {
		kws[i] = strings.Repeat("k", i+1)
	}

	a := clamp(RiskAssessment{
		RiskLevel:         RiskHigh,
		DangerousKeywords: kws,
		Reason:            long,
		Advice:            strings.Repeat("나", 250),
	})

	if n := utf8.RuneCountInString(a.Reason); n != 300 {
		t.Errorf("reason runes = %d, want exactly 300", n)
	}
	if !strings.HasSuffix(a.Reason, "...") {
		t.Error("truncated reason must end with the ellipsis marker")
	}
	if n := utf8.RuneCountInString(a.Advice); n != 200 {
		t.Errorf("advice runes = %d, want exactly 200", n)
	}
	if len(a.DangerousKeywords) != 10 {
		t.Fatalf("keywords = %d, want 10", len(a.DangerousKeywords))
	}
	if a.DangerousKeywords[0] != "k" || a.DangerousKeywords[9] != strings.Repeat("k", 10) {
		t.Error("truncation must preserve original keyword order")
	}
}

func TestClampLeavesShortValuesAlone(t *testing.T) {
	a := clamp(RiskAssessment{RiskLevel: RiskMedium, Reason: "짧음", Advice: "조언"})
	if a.Reason != "짧음" || a.Advice != "조언" {
		t.Errorf("short strings must pass through, got %+v", a)
	}
}
