package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/suderio/arena/internal/data"
	"github.com/suderio/arena/internal/session"
)

const welcome = "Type 'help' for the command list, 'exit' to quit."

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type battleModel struct {
	app         *session.Session
	repo        *data.Repository
	title       string
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
}

func newBattleModel(app *session.Session, repo *data.Repository, title string) battleModel {
	ti := textinput.New()
	ti.Placeholder = "move :by charizard flamethrower"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return battleModel{
		app:         app,
		repo:        repo,
		title:       title,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *battleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *battleModel) updateSuggestions() {
	var items []list.Item
	for _, c := range m.app.Complete(m.textInput.Value()) {
		items = append(items, suggestion(c))
	}
	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		m.suggestions.SetHeight(max(4, min(len(items), 10)))
		m.suggestions.ResetSelected()
	}
}

func (m *battleModel) execute(val string) {
	m.logContent += fmt.Sprintf("\n\n> %s\n", val)
	lines, err := m.app.Execute(val)
	if err != nil {
		m.logContent += errorStyle.Render("error: " + err.Error())
	}
	for _, line := range lines {
		m.logContent += line + "\n"
	}
	if !m.app.Battle().IsActive() {
		m.logContent += infoStyle.Render("The battle is over. Press esc to leave.")
	}
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *battleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.history) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.history[m.historyIdx])
				m.updateSuggestions()
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else if len(m.history) > 0 && m.historyIdx != -1 {
				if m.historyIdx < len(m.history)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.history[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.updateSuggestions()
			}

		case tea.KeyTab:
			if i, ok := m.suggestions.SelectedItem().(suggestion); ok && m.showList {
				m.textInput.SetValue(string(i))
				m.textInput.SetCursor(len(string(i)))
				m.updateSuggestions()
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}
			if val != "" {
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()
				m.execute(val)
			}

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	listH := 0
	if m.showList {
		listH = m.suggestions.Height() + 2
	}
	overhead := lipgloss.Height(titleStyle.Render(m.title)) +
		lipgloss.Height(m.renderState()) +
		listH + lipgloss.Height(infoStyle.Render(welcome)) + 1 + 6
	m.viewport.Height = max(4, m.height-overhead)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *battleModel) renderState() string {
	lines := session.FormatState(m.app.Battle().State(), m.repo)
	return stateBoxStyle.Width(max(m.width-4, 20)).Render(strings.Join(lines, "\n"))
}

func (m *battleModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		m.renderState(),
		logBoxStyle.Width(m.width-4).Render(m.viewport.View()),
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

// RunTUI plays a battle interactively on the alternate screen.
func RunTUI(app *session.Session, repo *data.Repository, title string) error {
	m := newBattleModel(app, repo, title)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
