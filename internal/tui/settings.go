package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/crema/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	grinders   []store.Grinder
	profiles   []store.Profile
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultDose      *string
	defaultRatio     *string
	defaultYield     *string
	defaultGrinderID *int64
	defaultProfileID *int64
	autofillLast     *string
	trendWindow      *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dose, ratio, yield := "", "", ""
	autofill, window := "", ""
	var grinderID, profileID int64
	return settingsModel{
		store:            s,
		defaultDose:      &dose,
		defaultRatio:     &ratio,
		defaultYield:     &yield,
		defaultGrinderID: &grinderID,
		defaultProfileID: &profileID,
		autofillLast:     &autofill,
		trendWindow:      &window,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
	grinders []store.Grinder
	profiles []store.Profile
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		grinders, _ := s.store.ListGrinders(true)
		profiles, _ := s.store.ListProfiles(true)
		return settingsDataMsg{settings: settings, grinders: grinders, profiles: profiles}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.grinders = msg.grinders
		s.profiles = msg.profiles
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.defaultDose = fmt.Sprintf("%.1f", s.store.DefaultDose())
	*s.defaultRatio = fmt.Sprintf("%.1f", s.store.DefaultRatio())
	*s.defaultYield = fmt.Sprintf("%.1f", s.store.DefaultYield())
	if s.store.AutofillLast() {
		*s.autofillLast = "true"
	} else {
		*s.autofillLast = "false"
	}
	*s.trendWindow = strconv.Itoa(s.store.TrendWindowDays())
	*s.defaultGrinderID = s.store.DefaultGrinderID()
	*s.defaultProfileID = s.store.DefaultProfileID()

	grinderOptions := []huh.Option[int64]{huh.NewOption("(none)", int64(0))}
	for _, g := range s.grinders {
		grinderOptions = append(grinderOptions, huh.NewOption(g.Name, g.ID))
	}
	profileOptions := []huh.Option[int64]{huh.NewOption("(none)", int64(0))}
	for _, p := range s.profiles {
		profileOptions = append(profileOptions, huh.NewOption(p.Name, p.ID))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default dose (g)").Value(s.defaultDose),
			huh.NewInput().Title("Default ratio").Value(s.defaultRatio),
			huh.NewInput().Title("Default yield (g)").Value(s.defaultYield),
		).Title("Brewing Defaults"),
		huh.NewGroup(
			huh.NewSelect[int64]().Title("Default grinder").Options(grinderOptions...).Value(s.defaultGrinderID),
			huh.NewSelect[int64]().Title("Default profile").Options(profileOptions...).Value(s.defaultProfileID),
			huh.NewSelect[string]().Title("Autofill from last shot").
				Options(
					huh.NewOption("Yes", "true"),
					huh.NewOption("No", "false"),
				).Value(s.autofillLast),
			huh.NewInput().Title("Trend window (days)").Value(s.trendWindow),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting(store.SettingDefaultDose, normalizeFloat(*s.defaultDose))
	s.store.SetSetting(store.SettingDefaultRatio, normalizeFloat(*s.defaultRatio))
	s.store.SetSetting(store.SettingDefaultYield, deriveYield(*s.defaultDose, *s.defaultRatio, *s.defaultYield))
	s.store.SetSetting(store.SettingAutofillLast, *s.autofillLast)
	s.store.SetSetting(store.SettingTrendWindowDays, normalizeInt(*s.trendWindow))
	s.store.SetSetting(store.SettingDefaultGrinderID, idOrEmpty(*s.defaultGrinderID))
	s.store.SetSetting(store.SettingDefaultProfileID, idOrEmpty(*s.defaultProfileID))
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(s.formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (s settingsModel) formatSettingValue(k, v string) string {
	switch k {
	case store.SettingDefaultDose, store.SettingDefaultYield:
		return v + " g"
	case store.SettingDefaultRatio:
		return "1:" + v
	case store.SettingTrendWindowDays:
		return v + " days"
	case store.SettingDefaultGrinderID:
		return s.lookupGrinder(v)
	case store.SettingDefaultProfileID:
		return s.lookupProfile(v)
	}
	return v
}

func (s settingsModel) lookupGrinder(v string) string {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id == 0 {
		return "(none)"
	}
	for _, g := range s.grinders {
		if g.ID == id {
			return g.Name
		}
	}
	return v
}

func (s settingsModel) lookupProfile(v string) string {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id == 0 {
		return "(none)"
	}
	for _, p := range s.profiles {
		if p.ID == id {
			return p.Name
		}
	}
	return v
}

func normalizeFloat(s string) string {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return fmt.Sprintf("%.1f", v)
	}
	return s
}

func normalizeInt(s string) string {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return strconv.Itoa(v)
	}
	return "7"
}

// deriveYield keeps dose * ratio and the stored yield consistent: when the
// user left yield untouched it follows from the other two.
func deriveYield(dose, ratio, yield string) string {
	d, errD := strconv.ParseFloat(dose, 64)
	r, errR := strconv.ParseFloat(ratio, 64)
	y, errY := strconv.ParseFloat(yield, 64)
	if errY != nil {
		if errD == nil && errR == nil {
			return fmt.Sprintf("%.1f", d*r)
		}
		return yield
	}
	if errD == nil && errR == nil && y == 0 {
		return fmt.Sprintf("%.1f", d*r)
	}
	return fmt.Sprintf("%.1f", y)
}

func idOrEmpty(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
