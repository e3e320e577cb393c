// Package keyword holds the local risk-keyword registry: the persisted
// keyword model, its SQLite store, and the deterministic substring matcher
// used as the fallback risk detector.
package keyword

import "time"

// Keyword types.
const (
	TypeURL  = "URL"
	TypeRisk = "RISK"
)

// Keyword is one entry of the registry. Mutated only through the store;
// read-only inside the scan pipeline (loaded once per service lifecycle).
type Keyword struct {
	ID        int64     `json:"id"`
	Word      string    `json:"word"`
	Type      string    `json:"type"`
	Category  string    `json:"category"`
	RiskLevel int       `json:"risk_level"` // 1 (low) .. 5 (critical)
	Source    string    `json:"source"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Active    bool      `json:"active"`
}

// Defaults returns the seed registry installed on first run.
func Defaults() []Keyword {
	def := func(word, typ, category string, risk int) Keyword {
		return Keyword{
			Word:      word,
			Type:      typ,
			Category:  category,
			RiskLevel: risk,
			Source:    "default",
			Active:    true,
		}
	}
	return []Keyword{
		// Shortened-URL bait.
		def("bit.ly", TypeURL, "url_shortener", 4),
		def("tinyurl.com", TypeURL, "url_shortener", 4),

		// Overseas job-scam recruitment.
		def("캄보디아", TypeRisk, "job_scam", 5),
		def("고수익", TypeRisk, "job_scam", 5),
		def("월 2000만원", TypeRisk, "job_scam", 5),
		def("출국", TypeRisk, "job_scam", 4),

		// Voice-phishing institution impersonation.
		def("금융감독원", TypeRisk, "voice_phishing", 5),
		def("검찰청", TypeRisk, "voice_phishing", 5),
		def("당첨", TypeRisk, "voice_phishing", 4),
	}
}
