package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// benchDoneMsg carries the benchmark outcome back into the TUI.
type benchDoneMsg struct {
	res *BenchResult
	err error
}

type elapsedTickMsg time.Time

// benchModel shows a spinner and elapsed time while the benchmark runs in
// the background, then quits so main can print the result.
type benchModel struct {
	run     func() (*BenchResult, error)
	label   string
	sp      spinner.Model
	start   time.Time
	elapsed time.Duration
	res     *BenchResult
	err     error
}

func newBenchModel(label string, run func() (*BenchResult, error)) benchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle
	return benchModel{run: run, label: label, sp: sp, start: time.Now()}
}

func (m benchModel) Init() tea.Cmd {
	return tea.Batch(m.sp.Tick, elapsedTick(), m.runCmd())
}

func (m benchModel) runCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.run()
		return benchDoneMsg{res: res, err: err}
	}
}

func elapsedTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return elapsedTickMsg(t)
	})
}

func (m benchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case benchDoneMsg:
		m.res = msg.res
		m.err = msg.err
		return m, tea.Quit

	case elapsedTickMsg:
		m.elapsed = time.Since(m.start)
		return m, elapsedTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.sp, cmd = m.sp.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.err = fmt.Errorf("interrupted")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m benchModel) View() string {
	if m.res != nil || m.err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n",
		m.sp.View(),
		m.label,
		dimStyle.Render(fmt.Sprintf("(%s)", m.elapsed.Round(100*time.Millisecond))))
}

// runWithSpinner runs the benchmark behind a live spinner and returns its
// result once the background run finishes.
func runWithSpinner(label string, run func() (*BenchResult, error)) (*BenchResult, error) {
	p := tea.NewProgram(newBenchModel(label, run))
	fm, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := fm.(benchModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", fm)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.res, nil
}
