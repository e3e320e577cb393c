package alert

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/screenguard/internal/scan"
)

// ConsolePresenter writes one user-facing notice per resolved scan. It is
// the terminal stand-in for the on-screen notification surface.
type ConsolePresenter struct {
	Out io.Writer
}

// Present prints the outcome notice for one scan.
func (p *ConsolePresenter) Present(_ context.Context, scanID string, outcome scan.Outcome) error {
	switch o := outcome.(type) {
	case scan.KeywordFinding:
		keys := make([]string, 0, len(o.Hits))
		for _, h := range o.Hits {
			keys = append(keys, h.String())
		}
		fmt.Fprintf(p.Out, "[%s] 위험 키워드가 발견되었습니다: %s\n", scanID, strings.Join(keys, ", "))
	case scan.AiFinding:
		fmt.Fprintf(p.Out, "[%s] AI 위험도 %s: %s (%s)\n",
			scanID, o.Assessment.RiskLevel, o.Assessment.Reason, o.Assessment.Advice)
	default:
		fmt.Fprintf(p.Out, "[%s] 의심스러운 내용을 찾지 못했습니다.\n", scanID)
	}
	return nil
}
