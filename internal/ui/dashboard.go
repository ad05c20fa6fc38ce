package ui

import (
	"fmt"
	"strings"
	"time"

	"panedeck/internal/schedule"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProjectSummary holds minimal project info for the dashboard list.
type ProjectSummary struct {
	Name      string
	ServerURL string
	Schedules []string // cron expressions from the project config
}

// projectItem implements list.Item for ProjectSummary.
type projectItem struct {
	ProjectSummary
}

func (p projectItem) FilterValue() string { return p.Name }
func (p projectItem) Title() string {
	line := p.Name
	if p.ServerURL != "" {
		line += fmt.Sprintf("  %s", p.ServerURL)
	}
	if len(p.Schedules) > 0 {
		line += fmt.Sprintf(", %d schedules", len(p.Schedules))
	}
	return line
}
func (p projectItem) Description() string { return "" }

// DashboardView lists all projects next to a calendar of the selected
// project's scheduled runs for the current month.
type DashboardView struct {
	list      list.Model
	Projects  []ProjectSummary
	schedules []schedule.Entry
	spinner   spinner.Model
	loading   bool
	now       func() time.Time
}

// Ensure DashboardView implements View.
var _ View = (*DashboardView)(nil)

// NewDashboardView creates a dashboard. Projects are loaded from disk via ProjectsLoadedMsg.
func NewDashboardView() *DashboardView {
	l := list.New(nil, NewCompactListDelegate(), 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	return &DashboardView{
		list:    l,
		spinner: s,
		now:     time.Now,
	}
}

// SetProjects replaces the project list and refreshes the calendar for the
// current selection.
func (d *DashboardView) SetProjects(projects []ProjectSummary) {
	d.Projects = projects
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{ProjectSummary: p}
	}
	d.list.SetItems(items)
	d.refreshSchedules()
}

// refreshSchedules re-parses the selected project's cron expressions.
// Invalid expressions are simply not marked on the calendar.
func (d *DashboardView) refreshSchedules() {
	d.schedules = nil
	if p, ok := d.Selected(); ok {
		d.schedules, _ = schedule.ParseAll(p.Schedules)
	}
}

// Selected returns the currently selected project, if any.
func (d *DashboardView) Selected() (ProjectSummary, bool) {
	i := d.list.Index()
	if i < 0 || i >= len(d.Projects) {
		return ProjectSummary{}, false
	}
	return d.Projects[i], true
}

// SetLoading sets the loading state and returns a command to start the spinner.
func (d *DashboardView) SetLoading(loading bool) tea.Cmd {
	d.loading = loading
	if loading {
		return d.spinner.Tick
	}
	return nil
}

// Init implements View.
func (d *DashboardView) Init() tea.Cmd {
	return d.spinner.Tick
}

// Update implements View.
func (d *DashboardView) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.list.SetWidth(msg.Width / 2)
		d.list.SetHeight(msg.Height - 4)
		return d, nil
	case spinner.TickMsg:
		if d.loading {
			var cmd tea.Cmd
			d.spinner, cmd = d.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return d, tea.Batch(cmds...)
	case tea.KeyMsg:
		if msg.String() == "enter" {
			if p, ok := d.Selected(); ok {
				name := p.Name
				return d, func() tea.Msg { return SelectProjectMsg{Name: name} }
			}
		}
	}

	// list.Model handles j/k/g/G navigation natively.
	before := d.list.Index()
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	if d.list.Index() != before {
		d.refreshSchedules()
	}
	cmds = append(cmds, cmd)
	return d, tea.Batch(cmds...)
}

// View implements View.
func (d *DashboardView) View() string {
	if d.list.Width() == 0 {
		d.list.SetWidth(40)
	}
	if d.list.Height() == 0 {
		d.list.SetHeight(20)
	}

	var b strings.Builder
	title := fmt.Sprintf("Projects (%d)", len(d.Projects))
	if d.loading {
		title += " " + d.spinner.View()
	}
	b.WriteString(Styles.Title.Render(title) + "\n")
	b.WriteString(Styles.Hint.Render("Enter: open  Press [SPC] for commands") + "\n\n")
	b.WriteString(d.list.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, b.String(), "  ", d.calendarView())
}

// calendarView renders the current month with scheduled days marked, plus
// the next few upcoming runs.
func (d *DashboardView) calendarView() string {
	now := d.now()
	marked := schedule.DaysInMonth(d.schedules, now.Year(), now.Month(), now.Location())
	cal := schedule.RenderCalendar(now.Year(), now.Month(), marked, now)

	var b strings.Builder
	b.WriteString(cal)
	if len(d.schedules) > 0 {
		b.WriteString("\n" + Styles.Section.Render("Next runs") + "\n")
		for _, t := range schedule.NextRuns(d.schedules, now, 3) {
			b.WriteString(Styles.Normal.Render(t.Format("Mon Jan 2 15:04")) + "\n")
		}
	} else {
		b.WriteString("\n" + Styles.Empty.Render("no schedules configured") + "\n")
	}
	return b.String()
}
