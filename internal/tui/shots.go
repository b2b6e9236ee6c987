package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/crema/internal/store"
)

type shotsModel struct {
	store  *store.Store
	width  int
	height int

	shots    []store.ShotDetails
	beans    []store.Bean
	grinders []store.Grinder
	cursor   int
	filter   store.ShotFilter

	formActive bool
	form       *huh.Form
	formType   string // "filter", "edit"

	// Filter form fields
	filterMinRating *string
	filterMaxRating *string
	filterBeanID    *int64
	filterGrinderID *int64
	filterFrom      *string
	filterTo        *string

	// Edit form fields
	editDose    *string
	editYield   *string
	editTime    *string
	editTemp    *string
	editGrind   *string
	editPreSec  *string
	editPreBar  *string
	editAroma   *string
	editFlavor  *string
	editBody    *string
	editAcidity *string
	editFinish  *string
	editRating  *string
	editNotes   *string
	editNext    *string

	editingID int64
}

func newShotsModel(s *store.Store) shotsModel {
	minR, maxR, from, to := "", "", "", ""
	var beanID, grinderID int64
	dose, yield, timeStr, temp := "", "", "", ""
	grind, preSec, preBar := "", "", ""
	aroma, flavor, body, acidity, finish := "", "", "", "", ""
	rating, notes, next := "", "", ""
	return shotsModel{
		store:           s,
		filterMinRating: &minR,
		filterMaxRating: &maxR,
		filterBeanID:    &beanID,
		filterGrinderID: &grinderID,
		filterFrom:      &from,
		filterTo:        &to,
		editDose:        &dose,
		editYield:       &yield,
		editTime:        &timeStr,
		editTemp:        &temp,
		editGrind:       &grind,
		editPreSec:      &preSec,
		editPreBar:      &preBar,
		editAroma:       &aroma,
		editFlavor:      &flavor,
		editBody:        &body,
		editAcidity:     &acidity,
		editFinish:      &finish,
		editRating:      &rating,
		editNotes:       &notes,
		editNext:        &next,
	}
}

func (m *shotsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type shotsDataMsg struct {
	shots    []store.ShotDetails
	beans    []store.Bean
	grinders []store.Grinder
}

func (m shotsModel) refresh() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		shots, _ := m.store.ListShots(filter)
		beans, _ := m.store.ListBeans(false)
		grinders, _ := m.store.ListGrinders(false)
		return shotsDataMsg{shots: shots, beans: beans, grinders: grinders}
	}
}

func (m shotsModel) update(msg tea.Msg) (shotsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case shotsDataMsg:
		m.shots = msg.shots
		m.beans = msg.beans
		m.grinders = msg.grinders
		if m.cursor >= len(m.shots) {
			m.cursor = max(0, len(m.shots)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.shots)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Filter):
			return m.showFilterForm()
		case key.Matches(msg, keys.Edit):
			if len(m.shots) > 0 {
				return m.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.shots) > 0 {
				id := m.shots[m.cursor].ID
				return m, func() tea.Msg {
					if err := m.store.DeleteShot(id); err != nil {
						return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
					}
					return shotDeletedMsg{}
				}
			}
		case key.Matches(msg, keys.Back):
			// Clear the filter
			m.filter = store.ShotFilter{}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m shotsModel) showFilterForm() (shotsModel, tea.Cmd) {
	*m.filterMinRating = ""
	*m.filterMaxRating = ""
	*m.filterBeanID = 0
	*m.filterGrinderID = 0
	*m.filterFrom = ""
	*m.filterTo = ""
	m.formType = "filter"

	beanOptions := []huh.Option[int64]{huh.NewOption("(any)", int64(0))}
	for _, b := range m.beans {
		beanOptions = append(beanOptions, huh.NewOption(b.Label(), b.ID))
	}
	grinderOptions := []huh.Option[int64]{huh.NewOption("(any)", int64(0))}
	for _, g := range m.grinders {
		grinderOptions = append(grinderOptions, huh.NewOption(g.Name, g.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Bean").Options(beanOptions...).Value(m.filterBeanID),
			huh.NewSelect[int64]().Title("Grinder").Options(grinderOptions...).Value(m.filterGrinderID),
			huh.NewInput().Title("Min rating (1-10)").Value(m.filterMinRating),
			huh.NewInput().Title("Max rating (1-10)").Value(m.filterMaxRating),
			huh.NewInput().Title("From (YYYY-MM-DD)").Value(m.filterFrom),
			huh.NewInput().Title("To (YYYY-MM-DD)").Value(m.filterTo),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m shotsModel) showEditForm() (shotsModel, tea.Cmd) {
	shot := m.shots[m.cursor]
	m.editingID = shot.ID
	m.formType = "edit"

	*m.editDose = fmt.Sprintf("%.1f", shot.DoseG)
	*m.editYield = fmt.Sprintf("%.1f", shot.YieldG)
	*m.editTime = ""
	if shot.TimeSeconds != nil {
		*m.editTime = strconv.Itoa(*shot.TimeSeconds)
	}
	*m.editTemp = ""
	if shot.TempC != nil {
		*m.editTemp = fmt.Sprintf("%.1f", *shot.TempC)
	}
	*m.editGrind = shot.GrindSetting
	*m.editPreSec = ""
	if shot.PreinfusionSec != nil {
		*m.editPreSec = strconv.Itoa(*shot.PreinfusionSec)
	}
	*m.editPreBar = ""
	if shot.PreinfusionBar != nil {
		*m.editPreBar = fmt.Sprintf("%.1f", *shot.PreinfusionBar)
	}
	*m.editAroma = shot.Aroma
	*m.editFlavor = shot.Flavor
	*m.editBody = shot.Body
	*m.editAcidity = shot.Acidity
	*m.editFinish = shot.Finish
	*m.editRating = ""
	if shot.Rating != nil {
		*m.editRating = strconv.Itoa(*shot.Rating)
	}
	*m.editNotes = shot.Notes
	*m.editNext = shot.NextShot

	ratingOptions := []huh.Option[string]{huh.NewOption("(unrated)", "")}
	for r := 1; r <= 10; r++ {
		v := strconv.Itoa(r)
		ratingOptions = append(ratingOptions, huh.NewOption(v, v))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Dose (g)").Value(m.editDose),
			huh.NewInput().Title("Yield (g)").Value(m.editYield),
			huh.NewInput().Title("Time (s)").Value(m.editTime),
			huh.NewInput().Title("Temp (°C)").Value(m.editTemp),
			huh.NewInput().Title("Grind setting").Value(m.editGrind),
			huh.NewInput().Title("Pre-infusion (s)").Value(m.editPreSec),
			huh.NewInput().Title("Pre-infusion (bar)").Value(m.editPreBar),
		).Title("Extraction"),
		huh.NewGroup(
			huh.NewInput().Title("Aroma").Suggestions(aromaVocabulary).Value(m.editAroma),
			huh.NewInput().Title("Flavor").Suggestions(flavorVocabulary).Value(m.editFlavor),
			huh.NewInput().Title("Body").Suggestions(bodyVocabulary).Value(m.editBody),
			huh.NewInput().Title("Acidity").Suggestions(acidityVocabulary).Value(m.editAcidity),
			huh.NewInput().Title("Finish").Suggestions(finishVocabulary).Value(m.editFinish),
			huh.NewSelect[string]().Title("Rating").Options(ratingOptions...).Value(m.editRating),
			huh.NewInput().Title("Notes").Value(m.editNotes),
			huh.NewInput().Title("Next shot").Value(m.editNext),
		).Title("Tasting"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

// Suggested tasting vocabulary; the fields stay free-form.
var (
	aromaVocabulary   = []string{"floral", "fruity", "nutty", "chocolate", "caramel", "earthy", "spicy"}
	flavorVocabulary  = []string{"berry", "citrus", "stone fruit", "cocoa", "honey", "toffee", "herbal"}
	bodyVocabulary    = []string{"light", "tea-like", "silky", "creamy", "syrupy", "heavy"}
	acidityVocabulary = []string{"bright", "crisp", "juicy", "mellow", "muted", "sharp"}
	finishVocabulary  = []string{"clean", "lingering", "sweet", "dry", "bitter", "short"}
)

func (m shotsModel) updateForm(msg tea.Msg) (shotsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "filter":
			m.filter = store.ShotFilter{
				MinRating: parseOptInt(*m.filterMinRating),
				MaxRating: parseOptInt(*m.filterMaxRating),
				From:      parseOptDate(*m.filterFrom),
			}
			if to := parseOptDate(*m.filterTo); to != nil {
				// The store's upper bound is exclusive; include the whole day.
				end := to.AddDate(0, 0, 1)
				m.filter.To = &end
			}
			if *m.filterBeanID != 0 {
				id := *m.filterBeanID
				m.filter.BeanID = &id
			}
			if *m.filterGrinderID != 0 {
				id := *m.filterGrinderID
				m.filter.GrinderID = &id
			}
			return m, m.refresh()
		case "edit":
			return m, m.applyEdit()
		}
	}

	return m, cmd
}

func (m shotsModel) applyEdit() tea.Cmd {
	id := m.editingID
	dose := parseFloatField(*m.editDose, 0)
	yield := parseFloatField(*m.editYield, 0)
	timeSec := parseOptInt(*m.editTime)
	temp := parseOptFloat(*m.editTemp)
	grind := *m.editGrind
	preSec := parseOptInt(*m.editPreSec)
	preBar := parseOptFloat(*m.editPreBar)
	aroma, flavor := *m.editAroma, *m.editFlavor
	body, acidity, finish := *m.editBody, *m.editAcidity, *m.editFinish
	rating := parseOptInt(*m.editRating)
	notes, next := *m.editNotes, *m.editNext

	return func() tea.Msg {
		shot, err := m.store.GetShot(id)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		shot.DoseG = dose
		shot.YieldG = yield
		shot.TimeSeconds = timeSec
		shot.TempC = temp
		shot.GrindSetting = grind
		shot.PreinfusionSec = preSec
		shot.PreinfusionBar = preBar
		shot.Aroma = aroma
		shot.Flavor = flavor
		shot.Body = body
		shot.Acidity = acidity
		shot.Finish = finish
		shot.Rating = rating
		shot.Notes = notes
		shot.NextShot = next
		if err := m.store.UpdateShot(*shot); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Shot updated"}
	}
}

func (m shotsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Filter Shots")
		if m.formType == "edit" {
			title = titleStyle.Render("Edit Shot")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Shot History")
	if m.filterApplied() {
		title += mutedStyle.Render("  (filtered)")
	}

	if len(m.shots) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No shots match. Press esc to clear the filter."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-14s %-26s %6s %6s %7s %6s %6s",
		"Date", "Bean", "Dose", "Yield", "Ratio", "Time", "Rating"))
	rows = append(rows, header)

	visible := m.visibleWindow()
	for i, s := range visible.shots {
		idx := visible.start + i
		cursor := "  "
		style := normalItemStyle
		if idx == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-14s %-26s %5.1fg %5.1fg %7s %6s %6s",
			cursor,
			s.Date.Local().Format("Jan 02 15:04"),
			truncate(s.BeanLabel, 26),
			s.DoseG,
			s.YieldG,
			formatRatio(s.Ratio),
			optInt(s.TimeSeconds),
			ratingStars(s.Rating),
		))
		rows = append(rows, row)
	}

	// Detail line for the selected shot.
	if m.cursor < len(m.shots) {
		s := m.shots[m.cursor]
		detail := fmt.Sprintf("  grinder: %s  profile: %s  temp: %s",
			emptyDash(s.GrinderName), emptyDash(s.ProfileName), optFloat(s.TempC))
		if s.Flavor != "" {
			detail += "  flavor: " + s.Flavor
		}
		if s.Notes != "" {
			detail += "  " + mutedStyle.Render(truncate(s.Notes, 40))
		}
		if s.NextShot != "" {
			detail += "  " + accentStyle.Render("next: "+truncate(s.NextShot, 30))
		}
		rows = append(rows, "")
		rows = append(rows, subtitleStyle.Render(detail))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  f: filter  e: edit  d: delete  esc: clear filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m shotsModel) filterApplied() bool {
	f := m.filter
	return f.MinRating != nil || f.MaxRating != nil || f.BeanID != nil ||
		f.GrinderID != nil || f.From != nil || f.To != nil
}

type shotWindow struct {
	shots []store.ShotDetails
	start int
}

// visibleWindow keeps the cursor on screen for long histories.
func (m shotsModel) visibleWindow() shotWindow {
	maxRows := m.height - 12
	if maxRows < 5 {
		maxRows = 5
	}
	if len(m.shots) <= maxRows {
		return shotWindow{shots: m.shots}
	}
	start := m.cursor - maxRows/2
	start = max(0, min(start, len(m.shots)-maxRows))
	return shotWindow{shots: m.shots[start : start+maxRows], start: start}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 1 {
		return string(runes[:n])
	}
	return string(runes[:n-1]) + "…"
}

func emptyDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
