package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/crema/internal/stats"
	"github.com/sadopc/crema/internal/store"
)

type goalRow struct {
	goal     store.Goal
	progress stats.GoalProgress
}

type dashboardModel struct {
	store  *store.Store
	timer  shotTimer
	width  int
	height int

	recentShots []store.ShotDetails
	averages    stats.Averages
	goals       []goalRow

	beans    []store.Bean
	grinders []store.Grinder
	profiles []store.Profile

	formActive bool
	form       *huh.Form
	formType   string // "shot", "goal"

	// Form field pointers (survive value copies)
	formBeanID    *int64
	formGrinderID *int64
	formProfileID *int64
	formDose      *string
	formYield     *string
	formTime      *string
	formTemp      *string
	formGrind     *string
	formRating    *string
	formNotes     *string

	// Goal form
	goalName   *string
	goalDesc   *string
	goalType   *string
	goalTarget *string
	goalDue    *string
}

func newDashboardModel(s *store.Store) dashboardModel {
	var beanID, grinderID, profileID int64
	dose, yield, timeStr, temp := "", "", "", ""
	grind, rating, notes := "", "", ""
	gName, gDesc, gType, gTarget, gDue := "", "", "", "", ""
	return dashboardModel{
		store:         s,
		formBeanID:    &beanID,
		formGrinderID: &grinderID,
		formProfileID: &profileID,
		formDose:      &dose,
		formYield:     &yield,
		formTime:      &timeStr,
		formTemp:      &temp,
		formGrind:     &grind,
		formRating:    &rating,
		formNotes:     &notes,
		goalName:      &gName,
		goalDesc:      &gDesc,
		goalType:      &gType,
		goalTarget:    &gTarget,
		goalDue:       &gDue,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isTiming() bool { return d.timer.running() }
func (d dashboardModel) elapsed() time.Duration {
	return d.timer.currentElapsed()
}

type dashboardDataMsg struct {
	recentShots []store.ShotDetails
	averages    stats.Averages
	goals       []goalRow
	beans       []store.Bean
	grinders    []store.Grinder
	profiles    []store.Profile
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		recent, _ := d.store.ListShots(store.ShotFilter{Limit: 5})
		all, _ := d.store.ListShots(store.ShotFilter{})
		averages := stats.AverageMetrics(all)

		goals, _ := d.store.ListGoals(true)
		rows := make([]goalRow, 0, len(goals))
		for _, g := range goals {
			rows = append(rows, goalRow{goal: g, progress: stats.ProgressFor(g, all)})
		}

		beans, _ := d.store.ListBeans(true)
		grinders, _ := d.store.ListGrinders(true)
		profiles, _ := d.store.ListProfiles(true)

		return dashboardDataMsg{
			recentShots: recent,
			averages:    averages,
			goals:       rows,
			beans:       beans,
			grinders:    grinders,
			profiles:    profiles,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.recentShots = msg.recentShots
		d.averages = msg.averages
		d.goals = msg.goals
		d.beans = msg.beans
		d.grinders = msg.grinders
		d.profiles = msg.profiles
		return d, nil

	case tickMsg:
		d.timer.tick()
		return d, nil

	case goalSavedMsg:
		return d, tea.Batch(
			d.loadData(),
			func() tea.Msg { return statusMsg{text: "Goal added"} },
		)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Timer):
			d.timer.toggle()
			return d, nil

		case key.Matches(msg, keys.New):
			if len(d.beans) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No beans yet. Press 3 to go to Library and add one.", isError: true}
				}
			}
			return d.showLogForm()

		case key.Matches(msg, keys.Goal):
			return d.showGoalForm()
		}
	}
	return d, nil
}

func (d dashboardModel) showGoalForm() (dashboardModel, tea.Cmd) {
	*d.goalName = ""
	*d.goalDesc = ""
	*d.goalType = stats.GoalShotsCount
	*d.goalTarget = ""
	*d.goalDue = ""

	typeOptions := []huh.Option[string]{
		huh.NewOption("Shot count", stats.GoalShotsCount),
		huh.NewOption("Average rating", stats.GoalRatingAverage),
		huh.NewOption("Bean exploration", stats.GoalBeanExploration),
		huh.NewOption("Consistency (shots rated 8+)", stats.GoalConsistency),
		huh.NewOption("Grinder test", stats.GoalGrinderTest),
		huh.NewOption("Ratio mastery (1:2 ± 0.2)", stats.GoalRatioMastery),
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal name").Value(d.goalName),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(d.goalType),
			huh.NewInput().Title("Target value").Value(d.goalTarget),
			huh.NewInput().Title("Due date (YYYY-MM-DD, optional)").Value(d.goalDue),
			huh.NewInput().Title("Description").Value(d.goalDesc),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formType = "goal"
	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) saveGoal() tea.Cmd {
	name := *d.goalName
	desc := *d.goalDesc
	goalType := *d.goalType
	target := parseFloatField(*d.goalTarget, 0)
	due := parseOptDate(*d.goalDue)

	return func() tea.Msg {
		if name == "" || target <= 0 {
			return statusMsg{text: "Goal needs a name and a positive target", isError: true}
		}
		if _, err := d.store.CreateGoal(name, desc, goalType, target, due); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return goalSavedMsg{}
	}
}

func (d dashboardModel) showLogForm() (dashboardModel, tea.Cmd) {
	d.prefillForm()

	beanOptions := make([]huh.Option[int64], len(d.beans))
	for i, b := range d.beans {
		beanOptions[i] = huh.NewOption(b.Label(), b.ID)
	}

	grinderOptions := []huh.Option[int64]{huh.NewOption("(none)", int64(0))}
	for _, g := range d.grinders {
		grinderOptions = append(grinderOptions, huh.NewOption(g.Name, g.ID))
	}
	profileOptions := []huh.Option[int64]{huh.NewOption("(none)", int64(0))}
	for _, p := range d.profiles {
		profileOptions = append(profileOptions, huh.NewOption(p.Name, p.ID))
	}

	ratingOptions := []huh.Option[string]{huh.NewOption("(unrated)", "")}
	for r := 1; r <= 10; r++ {
		v := strconv.Itoa(r)
		ratingOptions = append(ratingOptions, huh.NewOption(v, v))
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Bean").Options(beanOptions...).Value(d.formBeanID),
			huh.NewSelect[int64]().Title("Grinder").Options(grinderOptions...).Value(d.formGrinderID),
			huh.NewSelect[int64]().Title("Profile").Options(profileOptions...).Value(d.formProfileID),
			huh.NewInput().Title("Dose (g)").Value(d.formDose),
			huh.NewInput().Title("Yield (g)").Value(d.formYield),
		).Title("Shot"),
		huh.NewGroup(
			huh.NewInput().Title("Time (s)").Value(d.formTime),
			huh.NewInput().Title("Temp (°C)").Value(d.formTemp),
			huh.NewInput().Title("Grind setting").Value(d.formGrind),
			huh.NewSelect[string]().Title("Rating").Options(ratingOptions...).Value(d.formRating),
			huh.NewInput().Title("Notes").Value(d.formNotes),
		).Title("Details"),
	).WithShowHelp(true).WithShowErrors(true)

	d.formType = "shot"
	d.formActive = true
	return d, d.form.Init()
}

// prefillForm seeds the form from the last shot when autofill is on,
// otherwise from the stored defaults. A captured timer run always wins the
// time field.
func (d *dashboardModel) prefillForm() {
	dose := fmt.Sprintf("%.1f", d.store.DefaultDose())
	yield := fmt.Sprintf("%.1f", d.store.DefaultYield())
	grind := ""
	grinderID := d.store.DefaultGrinderID()
	profileID := d.store.DefaultProfileID()

	if d.store.AutofillLast() && len(d.recentShots) > 0 {
		last := d.recentShots[0]
		dose = fmt.Sprintf("%.1f", last.DoseG)
		yield = fmt.Sprintf("%.1f", last.YieldG)
		grind = last.GrindSetting
		if last.GrinderID != nil {
			grinderID = *last.GrinderID
		}
		if last.ProfileID != nil {
			profileID = *last.ProfileID
		}
		*d.formBeanID = last.BeanID
	} else if len(d.beans) > 0 {
		*d.formBeanID = d.beans[0].ID
	}

	*d.formGrinderID = grinderID
	*d.formProfileID = profileID
	*d.formDose = dose
	*d.formYield = yield
	*d.formGrind = grind
	*d.formTemp = ""
	*d.formRating = ""
	*d.formNotes = ""

	*d.formTime = ""
	if secs := d.timer.takeSeconds(); secs > 0 {
		*d.formTime = strconv.Itoa(secs)
	}
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		if d.formType == "goal" {
			return d, d.saveGoal()
		}
		return d, d.saveShot()
	}

	return d, cmd
}

func (d dashboardModel) saveShot() tea.Cmd {
	shot := store.Shot{
		Date:         time.Now().UTC(),
		BeanID:       *d.formBeanID,
		DoseG:        parseFloatField(*d.formDose, 0),
		YieldG:       parseFloatField(*d.formYield, 0),
		TimeSeconds:  parseOptInt(*d.formTime),
		TempC:        parseOptFloat(*d.formTemp),
		GrindSetting: *d.formGrind,
		Rating:       parseOptInt(*d.formRating),
		Notes:        *d.formNotes,
	}
	if *d.formGrinderID != 0 {
		id := *d.formGrinderID
		shot.GrinderID = &id
	}
	if *d.formProfileID != 0 {
		id := *d.formProfileID
		shot.ProfileID = &id
	}

	return func() tea.Msg {
		// History before the new shot, for the quality analysis.
		history, _ := d.store.ListShots(store.ShotFilter{})

		created, err := d.store.CreateShot(shot)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		points := make([]stats.HistoryPoint, len(history))
		for i := range history {
			points[i] = stats.HistoryPoint{
				TimeSeconds: history[i].TimeSeconds,
				DoseG:       history[i].DoseG,
			}
		}
		warnings := stats.AnalyzeShot(stats.ShotInput{
			TimeSeconds: created.TimeSeconds,
			DoseG:       created.DoseG,
			YieldG:      created.YieldG,
			Rating:      created.Rating,
		}, points)

		texts := make([]string, len(warnings))
		for i, w := range warnings {
			texts[i] = fmt.Sprintf("%s: %s", w.Severity, w.Message)
		}
		return shotLoggedMsg{shot: created, warnings: texts}
	}
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("Log Shot")
		if d.formType == "goal" {
			title = titleStyle.Render("New Goal")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View())
		return panelStyle.Width(contentWidth).Render(content)
	}

	timerPanel := d.renderTimerPanel(contentWidth)
	statsPanel := d.renderQuickStats(contentWidth)
	goalsPanel := d.renderGoalsPanel(contentWidth)
	recentPanel := d.renderRecentPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, statsPanel, goalsPanel, recentPanel)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.timer.running() {
		timeDisplay := timerRunningStyle.Width(w - 6).Render(formatClock(d.timer.currentElapsed()))
		indicator := successStyle.Render("●  EXTRACTING")
		hint := mutedStyle.Render("Press s to stop")
		content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, indicator, hint)
		return activePanelStyle.Width(w).Render(content)
	}

	display := "00:00"
	hint := "Press s to time a shot, n to log one"
	if d.timer.lastSeconds > 0 {
		display = formatClock(time.Duration(d.timer.lastSeconds) * time.Second)
		hint = fmt.Sprintf("Captured %ds - press n to log the shot", d.timer.lastSeconds)
	}
	timeDisplay := timerStyle.Width(w - 6).Render(display)
	content := lipgloss.JoinVertical(lipgloss.Center, timeDisplay, mutedStyle.Render(hint))
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderQuickStats(w int) string {
	title := titleStyle.Render("At a Glance")

	if d.averages.Count == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No shots yet. Press n to log your first."),
		)
		return panelStyle.Width(w).Render(content)
	}

	line := fmt.Sprintf("  %s shots   avg ratio %s   avg rating %s",
		highlightStyle.Render(strconv.Itoa(d.averages.Count)),
		highlightStyle.Render(formatRatio(d.averages.AvgRatio)),
		highlightStyle.Render(fmt.Sprintf("%.1f", d.averages.AvgRating)),
	)

	rows := []string{title, line}
	if d.averages.Best != nil {
		best := fmt.Sprintf("  best: %s (%s)",
			d.averages.Best.BeanLabel, ratingStars(d.averages.Best.Rating))
		rows = append(rows, accentStyle.Render(best))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderGoalsPanel(w int) string {
	title := titleStyle.Render("Goals")
	if len(d.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No active goals. Press g to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, g := range d.goals {
		bar := renderProgressBar(g.progress.Percent, 20)
		mark := "  "
		if g.progress.Achieved {
			mark = successStyle.Render("✓ ")
		}
		rows = append(rows, fmt.Sprintf("  %s%-24s %s %3.0f%%", mark, g.goal.Name, bar, g.progress.Percent))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(filled, width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if percent >= 100 {
		return successStyle.Render(bar)
	}
	return highlightStyle.Render(bar)
}

func (d dashboardModel) renderRecentPanel(w int) string {
	title := titleStyle.Render("Recent Shots")
	if len(d.recentShots) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No shots yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for _, s := range d.recentShots {
		dateStr := s.Date.Local().Format("Jan 02 15:04")
		row := fmt.Sprintf("  %s  %-28s %s  %s",
			dateStr,
			s.BeanLabel,
			formatRatio(s.Ratio),
			ratingStars(s.Rating),
		)
		rows = append(rows, row)
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
