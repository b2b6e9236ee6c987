package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/crema/internal/stats"
	"github.com/sadopc/crema/internal/store"
)

type statsMode int

const (
	statsOverview statsMode = iota
	statsTrends
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	mode     statsMode
	snapshot stats.Snapshot
	loaded   bool

	distChart   barchart.Model
	ratingSpark sparkline.Model
	ratioSpark  sparkline.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store:     s,
		distChart: barchart.New(60, 10),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	snapshot stats.Snapshot
}

func (m statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		shots, _ := m.store.ListShots(store.ShotFilter{})
		snap := stats.Compute(shots, time.Now().UTC())

		// Honor a custom trend window from settings.
		if days := m.store.TrendWindowDays(); days != stats.TrendWindowDays {
			snap.Trend = stats.TrendSeries(shots, time.Now().UTC(), days)
		}
		return statsDataMsg{snapshot: snap}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.snapshot = msg.snapshot
		m.loaded = true
		m.buildCharts()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.mode == statsOverview {
				m.mode = statsTrends
			} else {
				m.mode = statsOverview
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *statsModel) buildCharts() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}

	// Rating distribution: one bar per bucket 1..10.
	m.distChart = barchart.New(chartWidth, 10)
	var bars []barchart.BarData
	for r := 1; r <= 10; r++ {
		count := m.snapshot.Distribution.Counts[r]
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if r >= 8 {
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		} else if r <= 3 {
			style = lipgloss.NewStyle().Foreground(colorError)
		}
		bars = append(bars, barchart.BarData{
			Label: strconv.Itoa(r),
			Values: []barchart.BarValue{
				{Name: "shots", Value: float64(count), Style: style},
			},
		})
	}
	m.distChart.PushAll(bars)
	m.distChart.Draw()

	// Trend sparklines over the trailing window.
	sparkWidth := min(chartWidth, max(len(m.snapshot.Trend.Ratings), 10))
	m.ratingSpark = sparkline.New(sparkWidth, 4,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(colorHighlight)))
	for _, v := range m.snapshot.Trend.Ratings {
		m.ratingSpark.Push(v)
	}
	m.ratingSpark.Draw()

	m.ratioSpark = sparkline.New(sparkWidth, 4,
		sparkline.WithStyle(lipgloss.NewStyle().Foreground(colorSecondary)))
	for _, v := range m.snapshot.Trend.Ratios {
		m.ratioSpark.Push(v)
	}
	m.ratioSpark.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	overviewTab := inactiveTabStyle.Render("Overview")
	trendsTab := inactiveTabStyle.Render("Trends")
	if m.mode == statsOverview {
		overviewTab = activeTabStyle.Render("Overview")
	} else {
		trendsTab = activeTabStyle.Render("Trends")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Statistics"), "  ", overviewTab, trendsTab,
	)

	if !m.loaded || m.snapshot.Averages.Count == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				header, "", mutedStyle.Render("No shots yet. Log some to see statistics."),
			),
		)
	}

	var body string
	if m.mode == statsTrends {
		body = m.renderTrends()
	} else {
		body = m.renderOverview(w)
	}

	nav := mutedStyle.Render("  ←/→: switch view")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", nav),
	)
}

func (m statsModel) renderOverview(w int) string {
	a := m.snapshot.Averages

	headline := fmt.Sprintf("  %d shots   avg ratio %s   avg time %.0fs   avg temp %.1f°C   avg rating %.1f",
		a.Count, formatRatio(a.AvgRatio), a.AvgTimeSec, a.AvgTempC, a.AvgRating)

	sections := []string{
		highlightStyle.Render(headline),
		"",
		subtitleStyle.Render("  Rating distribution"),
		m.distChart.View(),
		"",
		m.renderRankings(),
		m.renderBestCombination(),
		"",
		subtitleStyle.Render("  Insights"),
		m.renderInsights(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m statsModel) renderRankings() string {
	var rows []string

	rows = append(rows, subtitleStyle.Render("  Top beans"))
	for i, r := range m.snapshot.BeanRankings {
		if i >= 3 {
			break
		}
		rows = append(rows, fmt.Sprintf("   %d. %-30s %.1f avg over %d shots",
			i+1, truncate(r.Label, 30), r.AvgRating, r.ShotCount))
	}
	if len(m.snapshot.BeanRankings) == 0 {
		rows = append(rows, mutedStyle.Render("   No rated shots yet"))
	}

	if len(m.snapshot.GrinderRankings) > 0 {
		rows = append(rows, subtitleStyle.Render("  Top grinders"))
		for i, r := range m.snapshot.GrinderRankings {
			if i >= 3 {
				break
			}
			rows = append(rows, fmt.Sprintf("   %d. %-30s %.1f avg over %d shots",
				i+1, truncate(r.Label, 30), r.AvgRating, r.ShotCount))
		}
	}

	return strings.Join(rows, "\n")
}

func (m statsModel) renderBestCombination() string {
	c := m.snapshot.BestCombination
	if c == nil {
		return ""
	}
	return accentStyle.Render(fmt.Sprintf("  Best pairing: %s + %s (%.1f avg, %s)",
		c.BeanLabel, c.GrinderName, c.Rating, formatRatio(c.Ratio)))
}

func (m statsModel) renderInsights() string {
	var rows []string
	for _, insight := range m.snapshot.Insights {
		rows = append(rows, "  • "+insight)
	}
	return strings.Join(rows, "\n")
}

func (m statsModel) renderTrends() string {
	t := m.snapshot.Trend

	if len(t.Dates) == 0 {
		return mutedStyle.Render("  No shots in the trend window")
	}

	rangeLabel := mutedStyle.Render(fmt.Sprintf("  %s — %s  (%d shots)",
		t.Dates[0], t.Dates[len(t.Dates)-1], len(t.Dates)))

	sections := []string{
		rangeLabel,
		"",
		subtitleStyle.Render("  Ratings"),
		m.ratingSpark.View(),
		"",
		subtitleStyle.Render("  Brew ratios"),
		m.ratioSpark.View(),
		"",
		m.renderShotsPerBean(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m statsModel) renderShotsPerBean() string {
	if len(m.snapshot.ShotsPerBean) == 0 {
		return ""
	}
	maxCount := m.snapshot.ShotsPerBean[0].Count

	var rows []string
	rows = append(rows, subtitleStyle.Render("  Shots per bean"))
	for _, b := range m.snapshot.ShotsPerBean {
		barWidth := 0
		if maxCount > 0 {
			barWidth = b.Count * 24 / maxCount
		}
		bar := highlightStyle.Render(strings.Repeat("▇", max(barWidth, 1)))
		rows = append(rows, fmt.Sprintf("   %-28s %s %d", truncate(b.Label, 28), bar, b.Count))
	}
	return strings.Join(rows, "\n")
}
