// Package ui renders live progress for multi-file runs.
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

	"cslayout/internal/driver"
)

// maxRows bounds the file list: large trees show the files in flight and
// the latest finished ones, the rest only counts.
const maxRows = 8

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type fileState struct {
	path    string
	stage   driver.Stage
	status  driver.Status
	elapsed time.Duration
	err     error
	touched uint64 // порядковый номер последнего события
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	files   []fileState
	byPath  map[string]int
	clock   uint64
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model for the listed files. It quits
// when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		files:   make([]fileState, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for i, path := range files {
		m.files[i] = fileState{path: path, stage: driver.StageLoad, status: driver.StatusQueued}
		m.byPath[path] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
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
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bm, cmd := m.bar.Update(msg)
		m.bar = bm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// apply records ev; events for files outside the list are ignored.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	m.clock++
	f := &m.files[i]
	f.stage, f.status, f.touched = ev.Stage, ev.Status, m.clock
	if ev.Elapsed > 0 {
		f.elapsed = ev.Elapsed
	}
	if ev.Err != nil {
		f.err = ev.Err
	}
	return m.bar.SetPercent(m.percent())
}

func (f *fileState) final() bool {
	return f.status == driver.StatusDone || f.status == driver.StatusError
}

// weight is the share of a file's work finished when it reaches stage.
func weight(stage driver.Stage) float64 {
	switch stage {
	case driver.StageParse:
		return 0.2
	case driver.StageFix:
		return 0.5
	case driver.StageScan:
		return 0.6
	}
	return 0
}

func (m *progressModel) percent() float64 {
	if len(m.files) == 0 {
		return 0
	}
	var sum float64
	for i := range m.files {
		f := &m.files[i]
		switch {
		case f.final():
			sum++
		case f.status == driver.StatusWorking:
			sum += weight(f.stage)
		}
	}
	return sum / float64(len(m.files))
}

type counts struct{ queued, working, done, failed int }

func (m *progressModel) count() counts {
	var c counts
	for i := range m.files {
		switch m.files[i].status {
		case driver.StatusWorking:
			c.working++
		case driver.StatusDone:
			c.done++
		case driver.StatusError:
			c.failed++
		default:
			c.queued++
		}
	}
	return c
}

// visible picks up to maxRows files: failures first, then files in flight,
// then the most recently finished.
func (m *progressModel) visible() []*fileState {
	var failed, working, finished []*fileState
	for i := range m.files {
		f := &m.files[i]
		switch f.status {
		case driver.StatusError:
			failed = append(failed, f)
		case driver.StatusWorking:
			working = append(working, f)
		case driver.StatusDone:
			finished = append(finished, f)
		}
	}
	// последние завершённые в конце
	for i := 1; i < len(finished); i++ {
		for j := i; j > 0 && finished[j].touched > finished[j-1].touched; j-- {
			finished[j], finished[j-1] = finished[j-1], finished[j]
		}
	}
	rows := append(append(failed, working...), finished...)
	if len(rows) > maxRows {
		rows = rows[:maxRows]
	}
	return rows
}

func (m *progressModel) View() string {
	if len(m.files) == 0 {
		return ""
	}
	c := m.count()
	var b strings.Builder

	head := fmt.Sprintf("%s %d/%d files", m.title, c.done+c.failed, len(m.files))
	if m.done {
		head = "done: " + head
	} else {
		head = m.spinner.View() + " " + head
	}
	b.WriteString(titleStyle.Render(head))
	summary := fmt.Sprintf("  %d working, %d queued", c.working, c.queued)
	if c.failed > 0 {
		summary += errorStyle.Render(fmt.Sprintf(", %d failed", c.failed))
	}
	b.WriteString(mutedStyle.Render(summary))
	b.WriteString("\n\n")

	nameWidth := max(m.width-24, 20)
	for _, f := range m.visible() {
		fmt.Fprintf(&b, "  %s %s", statusCell(f), truncate(f.path, nameWidth))
		if f.final() && f.elapsed > 0 {
			b.WriteString(mutedStyle.Render(" " + f.elapsed.Round(time.Millisecond).String()))
		}
		if f.err != nil {
			b.WriteString(errorStyle.Render(": " + truncate(f.err.Error(), nameWidth)))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteByte('\n')
	return b.String()
}

var stageVerbs = map[driver.Stage]string{
	driver.StageLoad:  "loading",
	driver.StageParse: "parsing",
	driver.StageScan:  "scanning",
	driver.StageFix:   "fixing",
}

// statusCell renders the fixed-width status column.
func statusCell(f *fileState) string {
	const width = 9
	switch f.status {
	case driver.StatusDone:
		return doneStyle.Render(fmt.Sprintf("%*s", width, "done"))
	case driver.StatusError:
		return errorStyle.Render(fmt.Sprintf("%*s", width, "error"))
	case driver.StatusWorking:
		return workingStyle.Render(fmt.Sprintf("%*s", width, stageVerbs[f.stage]))
	}
	return mutedStyle.Render(fmt.Sprintf("%*s", width, "queued"))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// Truncate сам вычитает ширину хвоста
	return runewidth.Truncate(value, width, "...")
}
