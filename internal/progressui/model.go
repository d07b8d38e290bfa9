// Package progressui provides the Bubble Tea progress bar shown while counting.
package progressui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	tickInterval = 100 * time.Millisecond
	padding      = 2
	maxBarWidth  = 80
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Tracker accumulates evaluated tuples. It is safe for concurrent use.
type Tracker struct {
	done atomic.Int64
}

// Add records n more evaluated tuples.
func (t *Tracker) Add(n int64) {
	t.done.Add(n)
}

// Done returns the number of evaluated tuples so far.
func (t *Tracker) Done() int64 {
	return t.done.Load()
}

type tickMsg time.Time

type doneMsg struct {
	err error
}

// Model renders a progress bar polled from a Tracker.
type Model struct {
	title   string
	total   int64
	tracker *Tracker
	cancel  context.CancelFunc
	bar     progress.Model
	started time.Time
	now     func() time.Time

	finished    bool
	interrupted bool
}

// NewModel constructs a progress model for total tuples.
func NewModel(title string, total int64, tracker *Tracker, cancel context.CancelFunc) *Model {
	return &Model{
		title:   title,
		total:   total,
		tracker: tracker,
		cancel:  cancel,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		started: time.Now(),
		now:     time.Now,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-padding*2, maxBarWidth)
		if m.bar.Width < 1 {
			m.bar.Width = 1
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			m.interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		if m.finished {
			return m, nil
		}
		return m, tick()
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	pad := strings.Repeat(" ", padding)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(pad + titleStyle.Render(m.title) + "\n")
	b.WriteString(pad + m.bar.ViewAs(m.fraction()) + "\n")
	b.WriteString(pad + footerStyle.Render(m.footer()) + "\n")
	return b.String()
}

// Interrupted reports whether the user aborted the run from the UI.
func (m *Model) Interrupted() bool {
	return m.interrupted
}

func (m *Model) fraction() float64 {
	if m.total <= 0 {
		return 1
	}
	done := min(m.tracker.Done(), m.total)
	return float64(done) / float64(m.total)
}

func (m *Model) footer() string {
	done := min(m.tracker.Done(), m.total)
	elapsed := m.now().Sub(m.started).Truncate(100 * time.Millisecond)
	return fmt.Sprintf("%d%%  %s / %s  %s",
		int(m.fraction()*100),
		humanize.Comma(done),
		humanize.Comma(m.total),
		elapsed,
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run executes work while showing a progress bar on stderr. The context passed
// to work is cancelled when the user presses ctrl+c in the UI.
func Run(ctx context.Context, title string, total int64, work func(ctx context.Context, tracker *Tracker) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tracker := &Tracker{}
	model := NewModel(title, total, tracker, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	result := make(chan error, 1)
	go func() {
		err := work(ctx, tracker)
		result <- err
		program.Send(doneMsg{err: err})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-result
		return fmt.Errorf("failed to run progress UI: %w", err)
	}
	return <-result
}
