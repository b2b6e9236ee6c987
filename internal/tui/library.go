package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/crema/internal/store"
)

type librarySection int

const (
	sectionBeans librarySection = iota
	sectionGrinders
	sectionProfiles
)

var sectionNames = []string{"Beans", "Grinders", "Profiles"}

type libraryModel struct {
	store  *store.Store
	width  int
	height int

	section  librarySection
	beans    []store.Bean
	grinders []store.Grinder
	profiles []store.Profile
	cursor   int
	query    string

	formActive bool
	form       *huh.Form
	formType   string // "bean", "edit_bean", "grinder", "edit_grinder", "profile", "edit_profile"

	// Form field pointers (survive value copies)
	formRoaster   *string
	formName      *string
	formRoastDate *string
	formCountry   *string
	formProcess   *string
	formVarietal  *string
	formNotes     *string
	formSetting   *string
	formDesc      *string
	formParams    *string
	formQuery     *string

	editingID int64
}

func newLibraryModel(s *store.Store) libraryModel {
	roaster, name, roastDate, country := "", "", "", ""
	process, varietal, notes := "", "", ""
	setting, desc, params := "", "", ""
	query := ""
	return libraryModel{
		store:         s,
		formRoaster:   &roaster,
		formName:      &name,
		formRoastDate: &roastDate,
		formCountry:   &country,
		formProcess:   &process,
		formVarietal:  &varietal,
		formNotes:     &notes,
		formSetting:   &setting,
		formDesc:      &desc,
		formParams:    &params,
		formQuery:     &query,
	}
}

func (m *libraryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type libraryDataMsg struct {
	beans    []store.Bean
	grinders []store.Grinder
	profiles []store.Profile
}

func (m libraryModel) refresh() tea.Cmd {
	query := m.query
	return func() tea.Msg {
		var (
			beans    []store.Bean
			grinders []store.Grinder
			profiles []store.Profile
		)
		if query != "" {
			beans, _ = m.store.SearchBeans(query)
			grinders, _ = m.store.SearchGrinders(query)
			profiles, _ = m.store.SearchProfiles(query)
		} else {
			beans, _ = m.store.ListBeans(false)
			grinders, _ = m.store.ListGrinders(false)
			profiles, _ = m.store.ListProfiles(false)
		}
		return libraryDataMsg{beans: beans, grinders: grinders, profiles: profiles}
	}
}

func (m libraryModel) sectionLen() int {
	switch m.section {
	case sectionGrinders:
		return len(m.grinders)
	case sectionProfiles:
		return len(m.profiles)
	default:
		return len(m.beans)
	}
}

func (m libraryModel) update(msg tea.Msg) (libraryModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case libraryDataMsg:
		m.beans = msg.beans
		m.grinders = msg.grinders
		m.profiles = msg.profiles
		if m.cursor >= m.sectionLen() {
			m.cursor = max(0, m.sectionLen()-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if m.section > 0 {
				m.section--
				m.cursor = 0
			}
		case key.Matches(msg, keys.Right):
			if m.section < sectionProfiles {
				m.section++
				m.cursor = 0
			}
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < m.sectionLen()-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewForm()
		case key.Matches(msg, keys.Edit):
			if m.sectionLen() > 0 {
				return m.showEditForm()
			}
		case key.Matches(msg, keys.Delete):
			return m.deactivateSelected()
		case key.Matches(msg, keys.Filter):
			return m.showSearchForm()
		case key.Matches(msg, keys.Back):
			if m.query != "" {
				m.query = ""
				m.cursor = 0
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m libraryModel) deactivateSelected() (libraryModel, tea.Cmd) {
	if m.sectionLen() == 0 {
		return m, nil
	}
	switch m.section {
	case sectionBeans:
		m.store.DeactivateBean(m.beans[m.cursor].ID)
	case sectionGrinders:
		m.store.DeactivateGrinder(m.grinders[m.cursor].ID)
	case sectionProfiles:
		m.store.DeactivateProfile(m.profiles[m.cursor].ID)
	}
	return m, m.refresh()
}

func (m libraryModel) showNewForm() (libraryModel, tea.Cmd) {
	switch m.section {
	case sectionGrinders:
		*m.formName = ""
		*m.formSetting = ""
		*m.formNotes = ""
		m.formType = "grinder"
		m.form = m.grinderForm()
	case sectionProfiles:
		*m.formName = ""
		*m.formDesc = ""
		*m.formParams = ""
		m.formType = "profile"
		m.form = m.profileForm()
	default:
		*m.formRoaster = ""
		*m.formName = ""
		*m.formRoastDate = time.Now().Format("2006-01-02")
		*m.formCountry = ""
		*m.formProcess = ""
		*m.formVarietal = ""
		*m.formNotes = ""
		m.formType = "bean"
		m.form = m.beanForm()
	}
	m.formActive = true
	return m, m.form.Init()
}

func (m libraryModel) showSearchForm() (libraryModel, tea.Cmd) {
	*m.formQuery = m.query
	m.formType = "search"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Search").Placeholder("roaster, name, country...").Value(m.formQuery),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m libraryModel) showEditForm() (libraryModel, tea.Cmd) {
	switch m.section {
	case sectionGrinders:
		g := m.grinders[m.cursor]
		*m.formName = g.Name
		*m.formSetting = g.DefaultSetting
		*m.formNotes = g.Notes
		m.formType = "edit_grinder"
		m.editingID = g.ID
		m.form = m.grinderForm()
	case sectionProfiles:
		p := m.profiles[m.cursor]
		*m.formName = p.Name
		*m.formDesc = p.Description
		*m.formParams = p.Parameters
		m.formType = "edit_profile"
		m.editingID = p.ID
		m.form = m.profileForm()
	default:
		b := m.beans[m.cursor]
		*m.formRoaster = b.Roaster
		*m.formName = b.Name
		*m.formRoastDate = b.RoastDate.Format("2006-01-02")
		*m.formCountry = b.Country
		*m.formProcess = b.Process
		*m.formVarietal = b.Varietal
		*m.formNotes = b.Notes
		m.formType = "edit_bean"
		m.editingID = b.ID
		m.form = m.beanForm()
	}
	m.formActive = true
	return m, m.form.Init()
}

func (m libraryModel) beanForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Roaster").Value(m.formRoaster),
			huh.NewInput().Title("Coffee name").Value(m.formName),
			huh.NewInput().Title("Roast date (YYYY-MM-DD)").Value(m.formRoastDate),
		),
		huh.NewGroup(
			huh.NewInput().Title("Country").Value(m.formCountry),
			huh.NewInput().Title("Process").Value(m.formProcess),
			huh.NewInput().Title("Varietal").Value(m.formVarietal),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m libraryModel) grinderForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Grinder name").Value(m.formName),
			huh.NewInput().Title("Default setting").Value(m.formSetting),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m libraryModel) profileForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Profile name").Value(m.formName),
			huh.NewInput().Title("Description").Value(m.formDesc),
			huh.NewInput().Title("Parameters").Value(m.formParams),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m libraryModel) updateForm(msg tea.Msg) (libraryModel, tea.Cmd) {
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
		m.submitForm()
		return m, m.refresh()
	}

	return m, cmd
}

func (m *libraryModel) submitForm() {
	switch m.formType {
	case "bean":
		if *m.formRoaster != "" && *m.formName != "" {
			m.store.CreateBean(m.beanFromForm())
		}
	case "edit_bean":
		if *m.formRoaster != "" && *m.formName != "" {
			b := m.beanFromForm()
			b.ID = m.editingID
			m.store.UpdateBean(b)
		}
	case "grinder":
		if *m.formName != "" {
			m.store.CreateGrinder(*m.formName, *m.formSetting, *m.formNotes)
		}
	case "edit_grinder":
		if *m.formName != "" {
			m.store.UpdateGrinder(m.editingID, *m.formName, *m.formSetting, *m.formNotes)
		}
	case "profile":
		if *m.formName != "" {
			m.store.CreateProfile(*m.formName, *m.formDesc, *m.formParams)
		}
	case "edit_profile":
		if *m.formName != "" {
			m.store.UpdateProfile(m.editingID, *m.formName, *m.formDesc, *m.formParams)
		}
	case "search":
		m.query = strings.TrimSpace(*m.formQuery)
		m.cursor = 0
	}
}

func (m libraryModel) beanFromForm() store.Bean {
	roastDate, err := time.Parse("2006-01-02", *m.formRoastDate)
	if err != nil {
		roastDate = time.Now().UTC()
	}
	return store.Bean{
		Roaster:   *m.formRoaster,
		Name:      *m.formName,
		RoastDate: roastDate,
		BuyDate:   time.Now().UTC(),
		Country:   *m.formCountry,
		Process:   *m.formProcess,
		Varietal:  *m.formVarietal,
		Notes:     *m.formNotes,
	}
}

func (m libraryModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render(m.formTitle())
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	// Section tabs
	var tabs []string
	for i, name := range sectionNames {
		if librarySection(i) == m.section {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	var body string
	switch m.section {
	case sectionGrinders:
		body = m.renderGrinders()
	case sectionProfiles:
		body = m.renderProfiles()
	default:
		body = m.renderBeans()
	}

	nav := mutedStyle.Render("  ←/→: section  n: new  e: edit  d: retire  f: search  esc: clear search")

	parts := []string{tabRow, ""}
	if m.query != "" {
		parts = append(parts, highlightStyle.Render("  Search: "+m.query), "")
	}
	parts = append(parts, body, "", nav)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m libraryModel) formTitle() string {
	switch m.formType {
	case "bean":
		return "New Bean"
	case "edit_bean":
		return "Edit Bean"
	case "grinder":
		return "New Grinder"
	case "edit_grinder":
		return "Edit Grinder"
	case "profile":
		return "New Profile"
	case "search":
		return "Search Library"
	default:
		return "Edit Profile"
	}
}

func (m libraryModel) renderBeans() string {
	if len(m.beans) == 0 {
		return mutedStyle.Render("  No beans yet. Press n to add one.")
	}

	var rows []string
	header := mutedStyle.Render(fmt.Sprintf("  %-30s %-12s %-12s %s", "Bean", "Roasted", "Country", "Process"))
	rows = append(rows, header)

	for i, b := range m.beans {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := truncate(b.Label(), 30)
		row := style.Render(fmt.Sprintf("%s%-30s %-12s %-12s %s",
			cursor, label, b.RoastDate.Format("2006-01-02"), b.Country, b.Process))
		if !b.Active {
			row += mutedStyle.Render(" (retired)")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m libraryModel) renderGrinders() string {
	if len(m.grinders) == 0 {
		return mutedStyle.Render("  No grinders yet. Press n to add one.")
	}

	var rows []string
	for i, g := range m.grinders {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-24s", cursor, g.Name))
		if g.DefaultSetting != "" {
			row += mutedStyle.Render(" @ " + g.DefaultSetting)
		}
		if !g.Active {
			row += mutedStyle.Render(" (retired)")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m libraryModel) renderProfiles() string {
	if len(m.profiles) == 0 {
		return mutedStyle.Render("  No profiles yet. Press n to add one.")
	}

	var rows []string
	for i, p := range m.profiles {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-24s", cursor, p.Name))
		if p.Parameters != "" {
			row += mutedStyle.Render(" [" + p.Parameters + "]")
		}
		if !p.Active {
			row += mutedStyle.Render(" (retired)")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}
