// Package tui provides the interactive catalogue shell: a menu-driven loop
// over the same add/list/delete/toggle operations the subcommands expose.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/tome/internal/catalog"
	"github.com/lepinkainen/tome/internal/googlebooks"
	"github.com/lepinkainen/tome/internal/importer"
)

const (
	defaultListWidth  = 48
	defaultListHeight = 14
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// Shell runs the interactive catalogue loop.
type Shell struct {
	importer *importer.Importer
	store    *catalog.Store
}

// NewShell creates a Shell over the given importer and store.
func NewShell(imp *importer.Importer, store *catalog.Store) *Shell {
	return &Shell{importer: imp, store: store}
}

// Run blocks until the user quits the shell.
func (s *Shell) Run() error {
	_, err := runProgram(newShellModel(s))
	return err
}

type menuAction int

const (
	actionAdd menuAction = iota
	actionList
	actionDelete
	actionToggle
	actionQuit
)

type menuItem struct {
	action menuAction
	title  string
	desc   string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

type shellMode int

const (
	modeMenu shellMode = iota
	modeInput
	modeResult
)

// resultMsg carries the outcome of a catalogue operation back into the UI loop.
type resultMsg struct {
	text string
	err  error
}

type shellModel struct {
	shell *Shell

	mode    shellMode
	menu    list.Model
	input   textinput.Model
	pending menuAction
	result  resultMsg
}

func newShellModel(s *Shell) *shellModel {
	items := []list.Item{
		menuItem{actionAdd, "Add a book", "Look up an ISBN and store it"},
		menuItem{actionList, "List books", "All stored titles with read status"},
		menuItem{actionDelete, "Delete a book", "Remove a stored title"},
		menuItem{actionToggle, "Toggle read status", "Flip a title between read and unread"},
		menuItem{actionQuit, "Quit", "Leave the catalogue"},
	}

	delegate := list.NewDefaultDelegate()
	menu := list.New(items, delegate, defaultListWidth, defaultListHeight)
	menu.Title = "Tome"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.SetShowPagination(false)

	input := textinput.New()
	input.CharLimit = 120
	input.Width = defaultListWidth - 4

	return &shellModel{
		shell: s,
		mode:  modeMenu,
		menu:  menu,
		input: input,
	}
}

func (m *shellModel) Init() tea.Cmd { return nil }

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeMenu:
			return m.updateMenu(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeResult:
			// Any key returns to the menu.
			m.mode = modeMenu
			return m, nil
		}

	case resultMsg:
		m.result = msg
		m.mode = modeResult
		return m, nil

	case tea.WindowSizeMsg:
		m.menu.SetSize(clamp(defaultListWidth, msg.Width-4, 30), clamp(defaultListHeight, msg.Height-6, 8))
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *shellModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "enter":
		item, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		switch item.action {
		case actionQuit:
			return m, tea.Quit
		case actionList:
			return m, m.listBooks
		default:
			m.pending = item.action
			m.input.SetValue("")
			m.input.Placeholder = inputPlaceholder(item.action)
			m.input.Focus()
			m.mode = modeInput
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *shellModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeMenu
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.mode = modeResult
		m.result = resultMsg{text: "Working..."}
		return m, m.runAction(m.pending, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func inputPlaceholder(action menuAction) string {
	switch action {
	case actionAdd:
		return "ISBN (10 or 13 digits)"
	case actionDelete:
		return "Exact title or ISBN"
	case actionToggle:
		return "Exact title"
	}
	return ""
}

// runAction executes a catalogue operation as a tea command so the UI loop
// never blocks on network or database calls.
func (m *shellModel) runAction(action menuAction, value string) tea.Cmd {
	switch action {
	case actionAdd:
		return func() tea.Msg { return m.addBook(value) }
	case actionDelete:
		return func() tea.Msg { return m.deleteBook(value) }
	case actionToggle:
		return func() tea.Msg { return m.toggleBook(value) }
	}
	return nil
}

func (m *shellModel) addBook(isbn string) tea.Msg {
	b, inserted, err := m.shell.importer.AddByISBN(context.Background(), isbn, false)
	if err != nil {
		return resultMsg{err: err}
	}
	if !inserted {
		return resultMsg{text: fmt.Sprintf("%q is already in the catalogue.", b.DisplayTitle())}
	}
	return resultMsg{text: fmt.Sprintf("Added %q.", b.DisplayTitle())}
}

func (m *shellModel) listBooks() tea.Msg {
	books, err := m.shell.store.List(nil)
	if err != nil {
		return resultMsg{err: err}
	}
	if len(books) == 0 {
		return resultMsg{text: "The catalogue is empty."}
	}

	var sb strings.Builder
	for _, b := range books {
		marker := "[ ]"
		if b.Read {
			marker = "[x]"
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, b.DisplayTitle())
	}
	return resultMsg{text: strings.TrimRight(sb.String(), "\n")}
}

func (m *shellModel) deleteBook(value string) tea.Msg {
	// A value that survives ISBN normalization as digits is treated as an
	// ISBN, anything else as a title.
	sel := catalog.Selector{Title: value}
	if isISBNLike(value) {
		sel = catalog.Selector{ISBN: googlebooks.NormalizeISBN(value)}
	}

	deleted, err := m.shell.store.Delete(sel)
	if err != nil {
		return resultMsg{err: err}
	}
	if !deleted {
		return resultMsg{text: fmt.Sprintf("No stored book matches %q.", value)}
	}
	return resultMsg{text: fmt.Sprintf("Deleted %q.", value)}
}

func (m *shellModel) toggleBook(title string) tea.Msg {
	found, err := m.shell.store.ToggleRead(title)
	if err != nil {
		return resultMsg{err: err}
	}
	if !found {
		return resultMsg{text: fmt.Sprintf("No stored book titled %q.", title)}
	}
	return resultMsg{text: fmt.Sprintf("Toggled read status of %q.", title)}
}

func isISBNLike(value string) bool {
	stripped := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, value)
	if len(stripped) != 10 && len(stripped) != 13 {
		return false
	}
	for _, r := range stripped {
		if (r < '0' || r > '9') && r != 'X' && r != 'x' {
			return false
		}
	}
	return true
}

func (m *shellModel) View() string {
	switch m.mode {
	case modeInput:
		prompt := promptStyle.Render(promptTitle(m.pending))
		help := helpStyle.Render("Enter confirm | Esc back")
		return lipgloss.JoinVertical(lipgloss.Left, prompt, m.input.View(), help)
	case modeResult:
		body := m.result.text
		style := resultStyle
		if m.result.err != nil {
			body = m.result.err.Error()
			style = errorStyle
		}
		help := helpStyle.Render("Any key returns to the menu")
		return lipgloss.JoinVertical(lipgloss.Left, style.Render(body), help)
	default:
		help := helpStyle.Render("Up/Down navigate | Enter select | q quit")
		return lipgloss.JoinVertical(lipgloss.Left, m.menu.View(), help)
	}
}

func promptTitle(action menuAction) string {
	switch action {
	case actionAdd:
		return "Add a book by ISBN"
	case actionDelete:
		return "Delete a book"
	case actionToggle:
		return "Toggle read status"
	}
	return ""
}

func clamp(preferred, max, min int) int {
	if max < min {
		return min
	}
	if preferred > max {
		return max
	}
	if preferred < min {
		return min
	}
	return preferred
}

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("161"))

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)
