package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/maintplan/internal/cli/formatter"
	"github.com/alexanderramin/maintplan/internal/contract"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type viewTab int

const (
	tabSchedule viewTab = iota
	tabResources
	tabPlan
	tabCount
)

func (t viewTab) String() string {
	switch t {
	case tabResources:
		return "Resources"
	case tabPlan:
		return "Plan"
	default:
		return "Schedule"
	}
}

type viewKeyMap struct {
	Next    key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

func (k viewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Refresh, k.Up, k.Down, k.Quit}
}

func (k viewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var viewKeys = viewKeyMap{
	Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type scheduleLoadedMsg struct {
	resp *contract.ScheduleResponse
	err  error
}

// planView is a read-only full-screen view of one plan's schedule.
type planView struct {
	ctx     context.Context
	app     *App
	req     contract.ScheduleRequest
	tab     viewTab
	resp    *contract.ScheduleResponse
	err     error
	vp      viewport.Model
	help    help.Model
	ready   bool
	loading bool
}

func newPlanView(ctx context.Context, app *App, req contract.ScheduleRequest) *planView {
	return &planView{ctx: ctx, app: app, req: req, help: help.New(), loading: true}
}

func (m *planView) load() tea.Cmd {
	ctx, app, req := m.ctx, m.app, m.req
	return func() tea.Msg {
		resp, err := app.Schedule.Compute(ctx, req)
		return scheduleLoadedMsg{resp: resp, err: err}
	}
}

func (m *planView) Init() tea.Cmd {
	return m.load()
}

func (m *planView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := max(msg.Height-2, 1)
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.vp.Width, m.vp.Height = msg.Width, h
		}
		m.help.Width = msg.Width
		m.refreshContent()
		return m, nil

	case scheduleLoadedMsg:
		m.loading = false
		m.resp, m.err = msg.resp, msg.err
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, viewKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, viewKeys.Next):
			m.tab = (m.tab + 1) % tabCount
			m.refreshContent()
			m.vp.GotoTop()
			return m, nil
		case key.Matches(msg, viewKeys.Refresh):
			m.loading = true
			return m, m.load()
		}
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *planView) content() string {
	switch {
	case m.err != nil:
		return formatter.StyleRed.Render("Error: " + m.err.Error())
	case m.resp == nil:
		return formatter.Dim("Loading…")
	}
	switch m.tab {
	case tabResources:
		return formatter.FormatResources(m.resp.Result.Resources, m.resp.Result.Verdict.Overlaps)
	case tabPlan:
		return formatter.FormatPlanDetail(m.resp.Plan, m.resp.WorkOrders)
	default:
		return formatter.FormatSchedule(m.resp)
	}
}

func (m *planView) refreshContent() {
	if m.ready {
		m.vp.SetContent(m.content())
	}
}

func (m *planView) tabBar() string {
	tabs := make([]string, 0, tabCount)
	for t := viewTab(0); t < tabCount; t++ {
		if t == m.tab {
			tabs = append(tabs, formatter.StyleHeader.Render("["+t.String()+"]"))
		} else {
			tabs = append(tabs, formatter.Dim(" "+t.String()+" "))
		}
	}
	bar := strings.Join(tabs, " ")
	if m.loading {
		bar += formatter.Dim("  refreshing…")
	}
	return bar
}

func (m *planView) View() string {
	if !m.ready {
		return m.content()
	}
	return fmt.Sprintf("%s\n%s\n%s", m.tabBar(), m.vp.View(), m.help.View(viewKeys))
}

func newViewCmd(app *App) *cobra.Command {
	var today dateValue

	cmd := &cobra.Command{
		Use:   "view <plan>",
		Short: "Browse a plan's schedule full-screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.IsInteractive {
				return fmt.Errorf("view needs an interactive terminal; use `maintplan schedule` instead")
			}
			req := contract.NewScheduleRequest(args[0])
			req.Today = today.Time()
			_, err := tea.NewProgram(newPlanView(cmd.Context(), app, req), tea.WithAltScreen()).Run()
			return err
		},
	}

	addTodayFlag(cmd.Flags(), &today)
	return cmd
}
