package keyword

import "strings"

// Hit is one matched keyword, keyed by category+word.
type Hit struct {
	Category string
	Word     string
}

// String renders the composite key the presentation layer consumes.
func (h Hit) String() string {
	return h.Category + "|" + h.Word
}

// Match runs the deterministic fallback detector: case-insensitive substring
// containment of every active keyword against every line. Hits are
// deduplicated on category+word and returned in first-seen order. Pure
// function over its inputs.
func Match(lines []string, keywords []Keyword) []Hit {
	seen := make(map[string]bool)
	var hits []Hit

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if !kw.Active || kw.Word == "" {
				continue
			}
			if !strings.Contains(lower, strings.ToLower(kw.Word)) {
				continue
			}
			h := Hit{Category: kw.Category, Word: kw.Word}
			if key := h.String(); !seen[key] {
				seen[key] = true
				hits = append(hits, h)
			}
		}
	}
	return hits
}
