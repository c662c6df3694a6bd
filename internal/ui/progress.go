package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"apisect/internal/intersect"
)

// recentTypes is how many per-type decisions stay on screen.
const recentTypes = 8

type progressModel struct {
	title   string
	events  <-chan intersect.Event
	spinner spinner.Model
	prog    progress.Model
	stages  []stageItem
	index   map[intersect.Stage]int
	recent  []typeItem
	kept    int
	dropped int
	seen    int
	total   int
	width   int
	done    bool
	failed  bool
}

type stageItem struct {
	stage  intersect.Stage
	status string
	detail string
}

type typeItem struct {
	identity string
	status   intersect.Status
}

type eventMsg intersect.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the stages of an
// intersection run and the latest type decisions.
func NewProgressModel(title string, events <-chan intersect.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	order := []intersect.Stage{intersect.StageIndex, intersect.StageTypes, intersect.StageNested, intersect.StageStubs}
	stages := make([]stageItem, len(order))
	index := make(map[intersect.Stage]int, len(order))
	for i, st := range order {
		stages[i] = stageItem{stage: st, status: "queued"}
		index[st] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		stages:  stages,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(intersect.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done && m.failed:
		header = "failed: " + header
	case m.done:
		header = "done: " + header
	default:
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for _, st := range m.stages {
		status := styleStatus(st.status).Render(fmt.Sprintf("%10s", st.status))
		fmt.Fprintf(&b, "  %s %-7s %s\n", status, st.stage, st.detail)
	}

	if len(m.recent) > 0 {
		b.WriteString("\n")
		nameWidth := m.width - 16
		if nameWidth < 20 {
			nameWidth = 20
		}
		for _, it := range m.recent {
			status := styleStatus(string(it.status)).Render(fmt.Sprintf("%10s", it.status))
			fmt.Fprintf(&b, "  %s %s\n", status, truncate(it.identity, nameWidth))
		}
	}

	fmt.Fprintf(&b, "\n  kept %d, dropped %d\n", m.kept, m.dropped)
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev intersect.Event) tea.Cmd {
	idx, ok := m.index[ev.Stage]
	if !ok {
		return nil
	}
	st := &m.stages[idx]
	if ev.Status == intersect.StatusError {
		m.failed = true
		st.status = "error"
		if ev.Err != nil {
			st.detail = ev.Err.Error()
		}
		return nil
	}

	if ev.Type == "" {
		switch ev.Status {
		case intersect.StatusWorking:
			st.status = "working"
			if ev.Stage == intersect.StageTypes {
				m.total = ev.Total
			}
		case intersect.StatusDone:
			st.status = "done"
			st.detail = fmt.Sprintf("%d in %s", ev.Total, ev.Elapsed.Round(time.Millisecond))
		}
		return m.prog.SetPercent(m.percent())
	}

	st.status = "working"
	if ev.Total > 0 {
		m.seen, m.total = ev.Done, ev.Total
		st.detail = fmt.Sprintf("%d/%d", ev.Done, ev.Total)
	}
	switch ev.Status {
	case intersect.StatusKept:
		m.kept++
	case intersect.StatusDropped:
		m.dropped++
	default:
		return nil
	}
	m.recent = append(m.recent, typeItem{identity: ev.Type, status: ev.Status})
	if len(m.recent) > recentTypes {
		m.recent = m.recent[len(m.recent)-recentTypes:]
	}
	return m.prog.SetPercent(m.percent())
}

// percent weighs the type pass as most of the run.
func (m *progressModel) percent() float64 {
	weights := map[intersect.Stage]float64{
		intersect.StageIndex:  0.05,
		intersect.StageTypes:  0.8,
		intersect.StageNested: 0.05,
		intersect.StageStubs:  0.1,
	}
	total := 0.0
	for _, st := range m.stages {
		w := weights[st.stage]
		switch st.status {
		case "done":
			total += w
		case "working":
			if st.stage == intersect.StageTypes && m.total > 0 {
				total += w * float64(m.seen) / float64(m.total)
			}
		}
	}
	return min(total, 1.0)
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", string(intersect.StatusKept):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case string(intersect.StatusDropped):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case "working":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
