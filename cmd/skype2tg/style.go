package main

import "github.com/charmbracelet/lipgloss"

var (
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(colorDim).Bold(true)
	styleName   = lipgloss.NewStyle().Foreground(colorBright)
	styleMeta   = lipgloss.NewStyle().Foreground(colorDim)
)
