package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"layercheck/internal/pipeline"
)

// recentFiles is how many of the latest file events the view lists.
const recentFiles = 8

type progressModel struct {
	title      string
	events     <-chan pipeline.Event
	spinner    spinner.Model
	prog       progress.Model
	files      map[string]fileItem
	recent     []string
	stage      pipeline.Stage
	stagesDone map[pipeline.Stage]bool
	cached     int
	failed     int
	width      int
	done       bool
}

type fileItem struct {
	stage  pipeline.Stage
	status pipeline.Status
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the progress of a
// run over files. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76 // Default width

	items := make(map[string]fileItem, len(files))
	for _, file := range files {
		items[file] = fileItem{status: pipeline.StatusQueued}
	}
	return &progressModel{
		title:      title,
		events:     events,
		spinner:    sp,
		prog:       prog,
		files:      items,
		stagesDone: make(map[pipeline.Stage]bool),
		width:      80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
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
	if label := stageLabel(m.stage); label != "" {
		header = fmt.Sprintf("%s (%s)", header, label)
	}
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d files, %d from cache", len(m.files), m.cached)
	if m.failed > 0 {
		b.WriteString(styleStatus(pipeline.StatusError).Render(fmt.Sprintf(", %d failed", m.failed)))
	}
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, path := range m.recent {
		item := m.files[path]
		label := statusLabel(item.stage, item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", label))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(path, nameWidth))
	}

	b.WriteString("\n")
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

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status.Finished() {
			m.stagesDone[ev.Stage] = true
		} else {
			m.stage = ev.Stage
		}
		return m.prog.SetPercent(m.percent())
	}
	if _, ok := m.files[ev.File]; !ok {
		return nil
	}
	m.stage = ev.Stage
	m.files[ev.File] = fileItem{stage: ev.Stage, status: ev.Status}
	switch ev.Status {
	case pipeline.StatusCached:
		m.cached++
	case pipeline.StatusError:
		m.failed++
	}
	m.touch(ev.File)
	return m.prog.SetPercent(m.percent())
}

// touch moves path to the end of the recent list.
func (m *progressModel) touch(path string) {
	for i, p := range m.recent {
		if p == path {
			m.recent = append(m.recent[:i], m.recent[i+1:]...)
			break
		}
	}
	m.recent = append(m.recent, path)
	if len(m.recent) > recentFiles {
		m.recent = m.recent[len(m.recent)-recentFiles:]
	}
}

// percent weighs finished stages fully and the current per-file stage by
// the share of files that went through it.
func (m *progressModel) percent() float64 {
	total := 0.0
	for _, st := range pipeline.Stages {
		if m.stagesDone[st] {
			total++
			continue
		}
		if len(m.files) == 0 {
			continue
		}
		n := 0
		for _, item := range m.files {
			if item.stage == st && item.status.Finished() {
				n++
			}
		}
		total += float64(n) / float64(len(m.files))
	}
	return total / float64(len(pipeline.Stages))
}

func statusLabel(stage pipeline.Stage, status pipeline.Status) string {
	switch status {
	case pipeline.StatusWorking:
		return stageLabel(stage)
	case pipeline.StatusDone:
		if stage == pipeline.StageLoad {
			return "loaded"
		}
		return "done"
	default:
		return string(status)
	}
}

func stageLabel(stage pipeline.Stage) string {
	switch stage {
	case pipeline.StageLoad:
		return "loading"
	case pipeline.StageMacros:
		return "collecting macros"
	case pipeline.StageExpand:
		return "expanding"
	case pipeline.StageSymbols:
		return "indexing"
	case pipeline.StageCheck:
		return "checking"
	default:
		return ""
	}
}

func styleStatus(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusDone, pipeline.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case pipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case pipeline.StatusWorking:
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
