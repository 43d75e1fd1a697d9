package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/researchmatch/internal/domain"
	"github.com/kingrea/researchmatch/internal/results"
)

// profileView shows a full profile in a scrollable viewport.
type profileView struct {
	profile  domain.Profile
	viewport viewport.Model
	width    int
}

func newProfileView(p domain.Profile, width, height int) *profileView {
	v := &profileView{profile: p, viewport: viewport.New(max(20, width), max(5, height))}
	v.resize(width, height)
	return v
}

func (v *profileView) resize(width, height int) {
	v.width = max(20, width)
	v.viewport.Width = v.width
	v.viewport.Height = max(5, height)
	v.viewport.SetContent(renderProfile(v.profile, v.width))
}

func (v *profileView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return cmd
}

func (v *profileView) View() string {
	return v.viewport.View()
}

func renderProfile(p domain.Profile, width int) string {
	r := domain.Researcher{
		ID:           p.ID,
		Name:         p.Name,
		Organization: p.Organization,
		ResearchArea: p.ResearchArea,
		Description:  p.Description,
	}
	label := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("[%s] %s", results.Initials(p.Name), p.Name)))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(p.Organization))
	b.WriteString("\n\n")

	row := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			value = subtleStyle.Render("Not provided")
		}
		b.WriteString(label.Render(name))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(value))
		b.WriteString("\n\n")
	}
	row("Email", p.Email)
	status := p.Status
	if status == "" {
		status = domain.StatusActive
	}
	row("Status", status)
	row("Seeking or Sharing", p.SeekShare)
	row("Resource Types", strings.Join(domain.SplitResourceTypes(p.ResourceType), ", "))
	row("Research Areas", strings.Join(results.ResearchAreas(r, 10), ", "))
	row("Description", results.CleanDescription(r))

	var metrics []string
	if p.HIndex != nil {
		metrics = append(metrics, fmt.Sprintf("h-index %d", *p.HIndex))
	}
	if p.Citations != nil {
		metrics = append(metrics, fmt.Sprintf("%d citations", *p.Citations))
	}
	row("Impact", strings.Join(metrics, " · "))
	funding := ""
	if p.FundingSummary != nil {
		funding = *p.FundingSummary
	}
	row("Funding", funding)

	b.WriteString(label.Render("Publications"))
	b.WriteString("\n")
	if len(p.Publications) == 0 {
		b.WriteString(subtleStyle.Render("No publications listed"))
		b.WriteString("\n")
	}
	for _, pub := range p.Publications {
		line := "• " + pub.Title
		var extra []string
		if pub.Journal != "" {
			extra = append(extra, pub.Journal)
		}
		if pub.Year > 0 {
			extra = append(extra, fmt.Sprint(pub.Year))
		}
		if len(extra) > 0 {
			line += subtleStyle.Render(" (" + strings.Join(extra, ", ") + ")")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
