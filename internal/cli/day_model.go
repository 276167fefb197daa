package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tbcal "github.com/alexanderramin/timebox/internal/calendar"
	"github.com/alexanderramin/timebox/internal/cli/formatter"
	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/alexanderramin/timebox/internal/scheduler"
)

// ── messages ─────────────────────────────────────────────────────────────────

type dayLoadedMsg struct {
	plan   *domain.DayPlan
	window domain.DayWindow
	err    error
}

type editedMsg struct {
	plan     *domain.DayPlan
	changed  bool
	decision scheduler.Decision
	err      error
}

type generatedMsg struct {
	plan *domain.DayPlan
	err  error
}

// ── key map ──────────────────────────────────────────────────────────────────

type dayKeyMap struct {
	Up, Down, Select, Pick, Grow, Shrink key.Binding
	Label, Category, Classify, Delete    key.Binding
	Generate, Reload, Cancel, Quit       key.Binding
}

func newDayKeyMap() dayKeyMap {
	return dayKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:   key.NewBinding(key.WithKeys("v", " "), key.WithHelp("v", "select slots")),
		Pick:     key.NewBinding(key.WithKeys("enter", "m"), key.WithHelp("enter", "pick up/drop")),
		Grow:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "resize")),
		Shrink:   key.NewBinding(key.WithKeys("-", "_")),
		Label:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "label")),
		Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		Classify: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "auto category")),
		Delete:   key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dayKeyMap) help() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Pick, k.Grow, k.Label, k.Category, k.Delete, k.Generate, k.Quit}
}

// ── model ────────────────────────────────────────────────────────────────────

// dayModel is the interactive day grid. Every gesture becomes one
// Calendar Adapter call inside PlannerService.Edit.
type dayModel struct {
	app  *App
	ctx  context.Context
	keys dayKeyMap

	date   string
	day    time.Time
	plan   *domain.DayPlan
	window domain.DayWindow
	rows   []tbcal.Row

	cursor   int
	anchor   int    // first slot of a selection, -1 when not selecting
	carrying string // id of an item picked up for a move

	editing bool
	editID  string
	input   textinput.Model

	busy    bool // generation in flight
	loading bool
	status  string
	err     error

	width, height int
	quitting      bool
}

func newDayModel(ctx context.Context, app *App, date string) *dayModel {
	day, _ := time.ParseInLocation(domain.DateLayout, date, app.location())
	ti := textinput.New()
	ti.Placeholder = "What will you do?"
	ti.CharLimit = 120
	return &dayModel{
		app:     app,
		ctx:     ctx,
		keys:    newDayKeyMap(),
		date:    date,
		day:     day,
		plan:    domain.NewDayPlan(date),
		window:  domain.DefaultDayWindow(),
		anchor:  -1,
		input:   ti,
		loading: true,
	}
}

func (m *dayModel) Init() tea.Cmd {
	return m.load()
}

func (m *dayModel) load() tea.Cmd {
	app, ctx, date := m.app, m.ctx, m.date
	return func() tea.Msg {
		s, err := app.Settings.Load(ctx)
		if err != nil {
			return dayLoadedMsg{err: err}
		}
		plan, err := app.Planner.Day(ctx, date)
		return dayLoadedMsg{plan: plan, window: s.DayDuration, err: err}
	}
}

// edit runs one adapter gesture against the stored day.
func (m *dayModel) edit(gesture func(a *tbcal.Adapter) bool) tea.Cmd {
	app, ctx, date := m.app, m.ctx, m.date
	return func() tea.Msg {
		var decision scheduler.Decision
		plan, changed, err := app.Planner.Edit(ctx, date, func(e *scheduler.Engine) bool {
			ok := gesture(tbcal.NewAdapter(e))
			decision = e.LastDecision()
			return ok
		})
		return editedMsg{plan: plan, changed: changed, decision: decision, err: err}
	}
}

func (m *dayModel) generate() tea.Cmd {
	app, ctx, date := m.app, m.ctx, m.date
	return func() tea.Msg {
		plan, err := app.Planner.GenerateSchedule(ctx, date, app.Identity)
		return generatedMsg{plan: plan, err: err}
	}
}

func (m *dayModel) setPlan(plan *domain.DayPlan) {
	if plan == nil {
		return
	}
	m.plan = plan
	m.rows = tbcal.Grid(scheduler.NewSchedule(plan.Items), m.window)
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

// slotHour is the hour at the cursor.
func (m *dayModel) slotHour() float64 {
	if m.cursor < len(m.rows) {
		return m.rows[m.cursor].Hour
	}
	return m.window.StartHour()
}

// itemAtCursor returns the item whose block covers the cursor slot.
func (m *dayModel) itemAtCursor() (domain.ScheduleItem, bool) {
	s := scheduler.NewSchedule(m.plan.Items)
	h := m.slotHour()
	if it, ok := s.ItemAt(h); ok {
		return it, true
	}
	return s.ItemCovering(h)
}

func (m *dayModel) at(hour float64) time.Time { return tbcal.SlotTime(m.day, hour) }

func (m *dayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case dayLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.window = msg.window
		m.setPlan(msg.plan)
		return m, nil

	case editedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.changed {
			m.status = ""
			m.setPlan(msg.plan)
		} else {
			reason := msg.decision.Message
			if reason == "" {
				reason = "nothing to change"
			}
			m.status = "No change: " + reason
		}
		return m, nil

	case generatedMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Generated %d timeboxes.", len(msg.plan.Items))
		m.setPlan(msg.plan)
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m *dayModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		id, text := m.editID, strings.TrimSpace(m.input.Value())
		return m, m.edit(func(a *tbcal.Adapter) bool { return a.Engine().Relabel(id, text) })
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *dayModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, k.Cancel):
		m.anchor = -1
		m.carrying = ""
		m.status = ""

	case key.Matches(msg, k.Select):
		if len(m.rows) == 0 {
			return m, nil
		}
		if m.anchor < 0 {
			m.anchor = m.cursor
			m.status = "Selecting: move and press v again to create"
			return m, nil
		}
		lo, hi := min(m.anchor, m.cursor), max(m.anchor, m.cursor)
		m.anchor = -1
		m.status = ""
		start := m.rows[lo].Hour
		end := m.rows[hi].Hour + domain.Slot
		return m, m.edit(func(a *tbcal.Adapter) bool {
			_, ok := a.SelectSlot(m.at(start), m.at(end))
			return ok
		})

	case key.Matches(msg, k.Pick):
		if m.carrying == "" {
			if it, ok := m.itemAtCursor(); ok {
				m.carrying = it.ID
				m.status = "Moving " + it.DisplayTitle() + ": choose a slot and press enter"
			}
			return m, nil
		}
		id := m.carrying
		m.carrying = ""
		m.status = ""
		it, ok := scheduler.NewSchedule(m.plan.Items).Get(id)
		if !ok {
			return m, nil
		}
		start := m.slotHour()
		return m, m.edit(func(a *tbcal.Adapter) bool {
			return a.Drop(id, m.at(start), m.at(start+it.Duration))
		})

	case key.Matches(msg, k.Grow), key.Matches(msg, k.Shrink):
		it, ok := m.itemAtCursor()
		if !ok {
			return m, nil
		}
		delta := domain.Slot
		if key.Matches(msg, k.Shrink) {
			delta = -domain.Slot
		}
		return m, m.edit(func(a *tbcal.Adapter) bool {
			return a.Resize(it.ID, m.at(it.StartTime), m.at(it.EndTime()+delta))
		})

	case key.Matches(msg, k.Label):
		if it, ok := m.itemAtCursor(); ok {
			m.editing = true
			m.editID = it.ID
			m.input.SetValue(it.Activity)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}

	case key.Matches(msg, k.Category):
		if it, ok := m.itemAtCursor(); ok {
			next := it.ActivityType.Next()
			return m, m.edit(func(a *tbcal.Adapter) bool { return a.Engine().Recategorize(it.ID, next) })
		}

	case key.Matches(msg, k.Classify):
		if it, ok := m.itemAtCursor(); ok {
			app, ctx, date := m.app, m.ctx, m.date
			return m, func() tea.Msg {
				if _, err := app.Planner.Classify(ctx, date, it.ID); err != nil {
					return editedMsg{err: err}
				}
				plan, err := app.Planner.Day(ctx, date)
				return editedMsg{plan: plan, changed: true, err: err}
			}
		}

	case key.Matches(msg, k.Delete):
		if it, ok := m.itemAtCursor(); ok {
			return m, m.edit(func(a *tbcal.Adapter) bool { return a.Engine().Delete(it.ID) })
		}

	case key.Matches(msg, k.Generate):
		if m.busy {
			m.status = "Generation already running"
			return m, nil
		}
		m.busy = true
		m.status = "Timeboxing your day..."
		return m, m.generate()

	case key.Matches(msg, k.Reload):
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m *dayModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", formatter.StyleHeader.Render("TIMEBOX "+m.date), formatter.Dim("day "+m.window.String()))
	if len(m.plan.TopGoals) > 0 {
		b.WriteString(formatter.StyleRed.Render("Goals: ") + strings.Join(m.plan.TopGoals, " · ") + "\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(formatter.Dim("Loading...") + "\n")
	} else {
		b.WriteString(m.renderGrid())
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString("Label: " + m.input.View() + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(formatter.Dim(m.status) + "\n")
	}
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *dayModel) renderGrid() string {
	selLo, selHi := -1, -1
	if m.anchor >= 0 {
		selLo, selHi = min(m.anchor, m.cursor), max(m.anchor, m.cursor)
	}
	blockWidth := 36
	if m.width > 0 {
		blockWidth = max(16, m.width-16)
	}

	var b strings.Builder
	for i, row := range m.rows {
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
		}

		label := "     "
		if row.Hour == float64(int(row.Hour)) {
			label = domain.FormatHour(row.Hour)
		}

		var cell string
		switch {
		case row.Item != nil:
			it := *row.Item
			text := fmt.Sprintf(" %s  %s", it.DisplayTitle(), formatter.FormatHours(it.Duration))
			if it.ID == m.carrying {
				text = " ⇅" + text
			}
			cell = formatter.ActivityBlock(it.ActivityType).Width(blockWidth).Render(truncate(text, blockWidth))
		case row.Covered:
			it, _ := scheduler.NewSchedule(m.plan.Items).Get(row.CoverID)
			cell = formatter.ActivityBlock(it.ActivityType).Width(blockWidth).Render("")
		case i >= selLo && i <= selHi:
			cell = lipgloss.NewStyle().Background(formatter.ColorDim).Width(blockWidth).Render("")
		default:
			cell = formatter.Dim("·")
		}
		fmt.Fprintf(&b, "%s%s │ %s\n", marker, formatter.Dim(label), cell)
	}
	return b.String()
}

func (m *dayModel) renderHelp() string {
	parts := make([]string, 0, len(m.keys.help()))
	for _, k := range m.keys.help() {
		h := k.Help()
		parts = append(parts, formatter.Bold(h.Key)+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 || len(r) < width {
		return s
	}
	return string(r[:width-1]) + "…"
}
