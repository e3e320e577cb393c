package assess

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Generator is the remote AI collaborator boundary: one prompt in, one raw
// response string out. Fallible for auth/quota/network reasons.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Client is the risk-assessment engine. Assess never returns an error:
// failures resolve internally to a safe LOW-risk default so an assessment
// outage is never read as "confirmed safe".
type Client struct {
	gen Generator
}

// NewClient wraps a generator. A nil generator is allowed and behaves as a
// permanently unavailable collaborator.
func NewClient(gen Generator) *Client {
	return &Client{gen: gen}
}

// Assess classifies the extracted text. Every path yields a complete
// RiskAssessment within the output bounds, including parse and remote
// failures.
func (c *Client) Assess(ctx context.Context, lines []string) RiskAssessment {
	fullText := strings.TrimSpace(strings.Join(lines, " "))
	if fullText == "" {
		return clamp(RiskAssessment{
			RiskLevel:         RiskLow,
			DangerousKeywords: []string{},
			Reason:            "분석할 텍스트가 없습니다.",
			Advice:            "스캔할 화면 내용이 필요합니다.",
			Degraded:          true,
		})
	}

	if c.gen == nil {
		return clamp(unavailableResult())
	}

	raw, err := c.gen.Generate(ctx, BuildPrompt(fullText))
	if err != nil || strings.TrimSpace(raw) == "" {
		if err == nil {
			err = fmt.Errorf("empty response")
		}
		fmt.Fprintf(os.Stderr, "screenguard: ai assessment unavailable: %v\n", err)
		return clamp(unavailableResult())
	}

	return clamp(parseResponse(raw))
}

// unavailableResult is the fixed fail-safe verdict for transport failures.
func unavailableResult() RiskAssessment {
	return RiskAssessment{
		RiskLevel:         RiskLow,
		DangerousKeywords: []string{},
		Reason:            "AI 분석을 완료할 수 없습니다.",
		Advice:            "수동으로 내용을 확인하세요.",
		Degraded:          true,
	}
}
