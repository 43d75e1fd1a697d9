// Package results normalizes and filters the researcher lists shown on the
// results and saved-matches screens.
package results

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/kingrea/researchmatch/internal/domain"
)

const (
	// NoDescription is shown when a record carries no description text.
	NoDescription = "No description available."
	// DefaultScore stands in for a missing match score.
	DefaultScore = "85%"
	// TruncateLength is the collapsed length of a card description.
	TruncateLength = 150
	// Ellipsis marks truncated text.
	Ellipsis = "…"
)

// Card is implemented by every record that renders as a researcher card.
// domain.MatchRecord and domain.SavedMatch get it from domain.Researcher.
type Card interface {
	Card() domain.Researcher
}

// CleanDescription returns the text to show for a record. The legacy primary
// text often repeats the research area in front; that prefix is removed.
func CleanDescription(r domain.Researcher) string {
	if r.Description != "" {
		return r.Description
	}
	text := strings.TrimSpace(r.PrimaryText)
	if text == "" {
		return NoDescription
	}
	area := strings.TrimSpace(r.ResearchArea)
	if area != "" && strings.HasPrefix(text, area) {
		text = strings.TrimLeftFunc(text[len(area):], func(c rune) bool {
			return c == ',' || unicode.IsSpace(c)
		})
	}
	if text == "" {
		return NoDescription
	}
	return text
}

// FormatScore renders the match score as a whole percentage.
func FormatScore(m domain.MatchRecord) string {
	if m.MatchScore == nil {
		return DefaultScore
	}
	return fmt.Sprintf("%d%%", int(math.Floor(*m.MatchScore*100+0.5)))
}

// SavedScore returns the score string persisted with a saved match.
func SavedScore(s domain.SavedMatch) string {
	if strings.TrimSpace(s.MatchScore) == "" {
		return DefaultScore
	}
	return s.MatchScore
}

// FilterByText keeps records where any of name, organization, research area
// or description contains query, ignoring case. The query is matched as
// typed; only an empty query returns records unchanged. The legacy primary
// text is display-only and never matched.
func FilterByText[T Card](records []T, query string) []T {
	if query == "" {
		return records
	}
	// A Caser keeps state, so each call gets its own.
	folder := cases.Fold()
	needle := folder.String(query)
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if matchesText(folder, rec.Card(), needle) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesText(folder cases.Caser, r domain.Researcher, needle string) bool {
	for _, field := range []string{r.Name, r.Organization, r.ResearchArea, r.Description} {
		if field != "" && strings.Contains(folder.String(field), needle) {
			return true
		}
	}
	return false
}

// FilterByOrganizations keeps records whose organization is in selected. An
// empty selection returns records unchanged.
func FilterByOrganizations[T Card](records []T, selected []string) []T {
	if len(selected) == 0 {
		return records
	}
	set := make(map[string]struct{}, len(selected))
	for _, org := range selected {
		set[org] = struct{}{}
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if _, ok := set[rec.Card().Organization]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Filter is the filter bar state of a results screen.
type Filter struct {
	Query         string
	Organizations []string
}

// Active reports whether either filter narrows the list.
func (f Filter) Active() bool {
	return f.Query != "" || len(f.Organizations) > 0
}

// Toggle adds org to the selection or removes it when already selected.
func (f Filter) Toggle(org string) Filter {
	out := Filter{Query: f.Query}
	found := false
	for _, o := range f.Organizations {
		if o == org {
			found = true
			continue
		}
		out.Organizations = append(out.Organizations, o)
	}
	if !found {
		out.Organizations = append(out.Organizations, org)
	}
	return out
}

// Selected reports whether org is part of the selection.
func (f Filter) Selected(org string) bool {
	for _, o := range f.Organizations {
		if o == org {
			return true
		}
	}
	return false
}

// Apply runs both filters; a record must pass both.
func Apply[T Card](f Filter, records []T) []T {
	return FilterByOrganizations(FilterByText(records, f.Query), f.Organizations)
}

// AvailableOrganizations returns the entries of options that occur in
// records, keeping the order of options.
func AvailableOrganizations[T Card](records []T, options []string) []string {
	present := make(map[string]struct{}, len(records))
	for _, rec := range records {
		present[rec.Card().Organization] = struct{}{}
	}
	var out []string
	for _, org := range options {
		if _, ok := present[org]; ok {
			out = append(out, org)
		}
	}
	return out
}

// Truncate shortens text to limit characters followed by an ellipsis. Text at
// or under the limit is returned unchanged.
func Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + Ellipsis
}

// ResearchAreas returns up to n trimmed research areas of r.
func ResearchAreas(r domain.Researcher, n int) []string {
	var out []string
	for _, area := range strings.Split(r.ResearchArea, ",") {
		area = strings.TrimSpace(area)
		if area == "" {
			continue
		}
		if len(out) == n {
			break
		}
		out = append(out, area)
	}
	return out
}

// Initials returns the upper-case initials of the first two words of name,
// or "U" when name is blank.
func Initials(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "U"
	}
	if len(fields) > 2 {
		fields = fields[:2]
	}
	var b strings.Builder
	for _, f := range fields {
		r, _ := utf8.DecodeRuneInString(f)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
