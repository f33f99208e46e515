package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/timesplit/internal/analytics"
	"github.com/sadopc/timesplit/internal/app"
	"github.com/sadopc/timesplit/internal/store"
)

type analyticsModel struct {
	state  *app.State
	now    func() time.Time
	width  int
	height int

	summary analytics.Summary
	chart   barchart.Model
}

func newAnalyticsModel(st *app.State) analyticsModel {
	return analyticsModel{
		state: st,
		now:   time.Now,
		chart: barchart.New(60, 12),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
}

// refresh recomputes every figure from the session log.
func (a *analyticsModel) refresh() {
	a.summary = analytics.Summarize(a.state.Log.All(), a.now())
	a.buildChart()
}

func (a *analyticsModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if a.height > 30 {
		chartHeight = 16
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(a.state.Theme().Primary))
	var bars []barchart.BarData
	for _, lt := range a.summary.ByLabel {
		bars = append(bars, barchart.BarData{
			Label: truncate(lt.Label, 10),
			Values: []barchart.BarValue{{
				Name:  lt.Label,
				Value: lt.Minutes,
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	a.chart.PushAll(bars)
	a.chart.Draw()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (a analyticsModel) view() string {
	w := a.width - 4
	pal := paletteFor(a.state.Theme())
	title := pal.selected.Render("Analytics Dashboard")

	if !a.summary.HasData {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No data to display."),
			mutedStyle.Render("Complete a session to see analytics."),
		))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ",
		mutedStyle.Render(fmt.Sprintf("%d sessions, %s total", a.summary.Sessions, analytics.FormatDuration(a.summary.TotalSeconds))),
	)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			titleStyle.Render("Work vs. Study Time"),
			a.renderModeSplit(w),
			"",
			titleStyle.Render("Time per Task (Minutes)"),
			a.chart.View(),
			"",
			a.renderLabelTable(w),
			"",
			pal.accent.Render("💡 "+a.summary.Suggestion),
		),
	)
}

func (a analyticsModel) renderModeSplit(w int) string {
	barWidth := max(10, min(w-40, 40))
	var rows []string
	for _, m := range store.Modes() {
		secs := a.summary.ByMode[m]
		share := a.summary.ModeShare(m)
		filled := int(share / 100 * float64(barWidth))
		color := lipgloss.Color(app.ThemeFor(m).Primary)
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled))
		rows = append(rows, fmt.Sprintf("  %-6s %s %5.1f%%  %s", m, bar, share, analytics.FormatDuration(secs)))
	}
	return strings.Join(rows, "\n")
}

func (a analyticsModel) renderLabelTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-30s %10s", "Label", "Minutes")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 41))))
	for _, lt := range a.summary.ByLabel {
		rows = append(rows, fmt.Sprintf("  %-30s %10.1f", truncate(lt.Label, 30), lt.Minutes))
	}
	return strings.Join(rows, "\n")
}
