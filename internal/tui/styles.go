package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#5B8DEF")
	colorBrand  = lipgloss.Color("#FF6B6B")
	colorMuted  = lipgloss.Color("#888888")
	colorBorder = lipgloss.Color("#444444")
	colorGood   = lipgloss.Color("#4CAF50")
	colorWarn   = lipgloss.Color("#F7B801")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorBrand).MarginBottom(1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(colorBrand)
	successStyle = lipgloss.NewStyle().Foreground(colorGood)
	scoreStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	chipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1A1A1A")).Background(lipgloss.Color("#A0AEC0")).Padding(0, 1)
	activeChip   = chipStyle.Background(colorAccent).Foreground(lipgloss.Color("#FFFFFF"))
	bannerStyle  = lipgloss.NewStyle().Foreground(colorBrand).Border(lipgloss.RoundedBorder()).BorderForeground(colorBrand).Padding(0, 1)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	cardStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	cardSelected = cardStyle.BorderForeground(colorAccent)
	savedStyle   = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
)
