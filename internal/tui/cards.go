package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/results"
)

// cardList is the filterable, expandable list behind the results and the
// saved matches screens.
type cardList[T results.Card] struct {
	all      []T
	options  []string
	filter   results.Filter
	query    textinput.Model
	typing   bool
	cursor   int
	expanded map[int]bool
}

func newCardList[T results.Card](records []T, options []string) *cardList[T] {
	q := newTextInput()
	q.Prompt = "/ "
	q.Placeholder = "Filter by name, organization, area or description"
	return &cardList[T]{
		all:      records,
		options:  options,
		query:    q,
		expanded: map[int]bool{},
	}
}

func (c *cardList[T]) visible() []T {
	return results.Apply(c.filter, c.all)
}

func (c *cardList[T]) selected() (T, bool) {
	vis := c.visible()
	if c.cursor < 0 || c.cursor >= len(vis) {
		var zero T
		return zero, false
	}
	return vis[c.cursor], true
}

func (c *cardList[T]) organizations() []string {
	return results.AvailableOrganizations(c.all, c.options)
}

func (c *cardList[T]) clamp() {
	n := len(c.visible())
	if c.cursor >= n {
		c.cursor = n - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

// replace swaps the record with the given id for fn's result.
func (c *cardList[T]) replace(id int, fn func(T) T) {
	for i, rec := range c.all {
		if rec.Card().ID == id {
			c.all[i] = fn(rec)
		}
	}
}

func (c *cardList[T]) remove(id int) {
	kept := c.all[:0:0]
	for _, rec := range c.all {
		if rec.Card().ID != id {
			kept = append(kept, rec)
		}
	}
	c.all = kept
	delete(c.expanded, id)
	c.clamp()
}

// handleKey consumes list keys. It reports false for keys the screen should
// interpret itself.
func (c *cardList[T]) handleKey(msg tea.KeyMsg) bool {
	key := msg.String()
	if c.typing {
		switch key {
		case "esc", "enter":
			c.typing = false
			c.query.Blur()
			return true
		}
		c.query, _ = c.query.Update(msg)
		c.filter.Query = c.query.Value()
		c.clamp()
		return true
	}
	switch key {
	case "/":
		c.typing = true
		c.query.Focus()
		return true
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
		return true
	case "down", "j":
		if c.cursor < len(c.visible())-1 {
			c.cursor++
		}
		return true
	case " ", "x":
		if rec, ok := c.selected(); ok {
			id := rec.Card().ID
			c.expanded[id] = !c.expanded[id]
		}
		return true
	case "0":
		c.filter = results.Filter{Query: c.filter.Query}
		c.clamp()
		return true
	case "c":
		c.filter = results.Filter{}
		c.query.SetValue("")
		c.clamp()
		return true
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		orgs := c.organizations()
		if n <= len(orgs) {
			c.filter = c.filter.Toggle(orgs[n-1])
			c.clamp()
		}
		return true
	}
	return false
}

// renderFilterBar shows the query input and the numbered organization chips.
func (c *cardList[T]) renderFilterBar() string {
	var parts []string
	if c.typing || c.filter.Query != "" {
		parts = append(parts, c.query.View())
	}
	orgs := c.organizations()
	if len(orgs) > 0 {
		chips := make([]string, 0, len(orgs))
		for i, org := range orgs {
			style := chipStyle
			if c.filter.Selected(org) {
				style = activeChip
			}
			chips = append(chips, style.Render(fmt.Sprintf("%d %s", i+1, org)))
		}
		parts = append(parts, strings.Join(chips, " "))
	}
	shown, total := len(c.visible()), len(c.all)
	count := fmt.Sprintf("%d of %d shown", shown, total)
	if !c.filter.Active() {
		count = fmt.Sprintf("%d total", total)
	}
	parts = append(parts, subtleStyle.Render(count))
	return strings.Join(parts, "\n")
}

// view renders the visible cards around the cursor so the selection stays on
// screen.
func (c *cardList[T]) view(width, height int, render func(rec T, selected, expanded bool, width int) string) string {
	vis := c.visible()
	if len(vis) == 0 {
		return subtleStyle.Render("No records match the current filters. Press c to clear them.")
	}
	perPage := max(1, height/6)
	start := 0
	if c.cursor >= perPage {
		start = c.cursor - perPage + 1
	}
	end := min(len(vis), start+perPage)
	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rec := vis[i]
		cards = append(cards, render(rec, i == c.cursor, c.expanded[rec.Card().ID], width))
	}
	return strings.Join(cards, "\n")
}

// renderCard draws the shared researcher card body with the score badge.
func renderCard(r domain.Researcher, score string, saved, selected, expanded bool, width int) string {
	style := cardStyle
	if selected {
		style = cardSelected
	}
	inner := max(20, width-4)
	name := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("[%s] %s", results.Initials(r.Name), r.Name))
	badge := scoreStyle.Render(score + " match")
	if saved {
		badge = savedStyle.Render("★ saved") + "  " + badge
	}
	gap := max(1, inner-lipgloss.Width(name)-lipgloss.Width(badge))
	lines := []string{name + strings.Repeat(" ", gap) + badge}
	meta := r.Organization
	if areas := results.ResearchAreas(r, 3); len(areas) > 0 {
		meta += " · " + strings.Join(areas, ", ")
	}
	lines = append(lines, subtleStyle.Render(meta))
	desc := results.CleanDescription(r)
	if expanded {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(desc))
		if types := domain.SplitResourceTypes(r.ResourceType); len(types) > 0 {
			lines = append(lines, subtleStyle.Render("Resources: "+strings.Join(types, ", ")))
		}
		if r.SeekShare != "" {
			lines = append(lines, subtleStyle.Render("Intent: "+r.SeekShare))
		}
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(results.Truncate(desc, results.TruncateLength)))
	}
	return style.Width(inner).Render(strings.Join(lines, "\n"))
}
