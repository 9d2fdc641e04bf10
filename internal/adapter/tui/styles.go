package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleHeader      = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleHeadword    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleTranslation = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleSentence    = lipgloss.NewStyle().Italic(true)
	styleSubtle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleDone        = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleCard        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)
