package sandbox

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kingrea/researchmatch/internal/domain"
)

var stopWords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "who": {}, "are": {}, "our": {},
	"from": {}, "that": {}, "this": {}, "into": {}, "have": {}, "has": {}, "can": {},
	"looking": {}, "seeking": {}, "need": {}, "want": {}, "someone": {}, "research": {},
}

// terms splits text into the lower-case words used for overlap scoring.
func terms(text string) map[string]struct{} {
	out := map[string]struct{}{}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// rank scores candidates with the opposite intent of req by the share of
// query terms found in their description and research area. The caller's
// own profile and inactive profiles never match.
func rank(profiles []domain.Profile, callerID int, req domain.MatchRequest, limit int) []domain.MatchRecord {
	query := terms(req.Description)
	if len(query) == 0 {
		return []domain.MatchRecord{}
	}
	want := domain.OppositeIntent(req.SeekShare)
	type scored struct {
		profile domain.Profile
		score   float64
	}
	var hits []scored
	for _, p := range profiles {
		if p.ID == callerID || !p.Active() || p.SeekShare != want {
			continue
		}
		doc := terms(p.Description + " " + p.ResearchArea + " " + p.PrimaryText)
		overlap := 0
		for term := range query {
			if _, ok := doc[term]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		hits = append(hits, scored{profile: p, score: float64(overlap) / float64(len(query))})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].profile.ID < hits[j].profile.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]domain.MatchRecord, 0, len(hits))
	for _, h := range hits {
		score := math.Round(h.score*1000) / 1000
		out = append(out, domain.MatchRecord{Researcher: researcher(h.profile), MatchScore: &score})
	}
	return out
}
