// Package tui implements the terminal contact book on top of the application
// Controller. Store exchanges run as tea.Cmds so the screen keeps rendering
// the controller's busy state while a request is in flight.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
)

// mode is the active interaction of the screen.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
	fieldCount
)

// loadedMsg reports the end of a Load.
type loadedMsg struct{ err error }

// savedMsg reports the end of a Submit.
type savedMsg struct{ err error }

// deletedMsg reports the end of a Delete.
type deletedMsg struct{ err error }

// Model is the bubbletea model of the contact book.
type Model struct {
	ctx    context.Context
	ctrl   *application.Controller
	styles Styles

	mode    mode
	cursor  int
	search  textinput.Model
	inputs  [fieldCount]textinput.Model
	focus   int
	pending model.Contact // delete candidate while confirming
}

// New creates the model. ctx bounds every store exchange started from the
// screen.
func New(ctx context.Context, ctrl *application.Controller) Model {
	search := newInput("search by name", 60)
	search.Prompt = "/ "

	var inputs [fieldCount]textinput.Model
	inputs[fieldName] = newInput("Full name", 80)
	inputs[fieldEmail] = newInput("name@example.com", 120)
	inputs[fieldPhone] = newInput("(99) 99999-9999", 20)

	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		styles: DefaultStyles(),
		search: search,
		inputs: inputs,
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, ctrl *application.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, ctrl), opts...).Run()
	return err
}

// Init loads the collection.
func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.ctrl.Load(m.ctx)}
	}
}

func (m Model) submitCmd() tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: m.ctrl.Submit(m.ctx)}
	}
}

// deleteCmd deletes id. The user already confirmed on screen.
func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.ctrl.Delete(m.ctx, id, application.Confirmed)
		return deletedMsg{err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.clampCursor()
		return m, nil

	case savedMsg:
		if msg.err == nil {
			m.mode = modeList
			m.blurInputs()
			m.clampCursor()
		}
		return m, nil

	case deletedMsg:
		m.mode = modeList
		m.pending = model.Contact{}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.ctrl.View()
	rows := view.Page.Contacts

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.loadCmd()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case "right", "n", "pgdown":
		if m.ctrl.Next() {
			m.cursor = 0
		}
	case "left", "p", "pgup":
		if m.ctrl.Previous() {
			m.cursor = 0
		}
	case "s":
		m.ctrl.ToggleSort()
		m.clampCursor()
	case "/":
		m.mode = modeSearch
		_ = m.search.Focus()
	case "a":
		m.ctrl.NewDraft()
		m.openForm(model.Contact{})
	case "e", "enter":
		if len(rows) > 0 {
			m.ctrl.Edit(rows[m.cursor])
			m.openForm(rows[m.cursor])
		}
	case "d", "delete":
		if len(rows) > 0 {
			m.pending = rows[m.cursor]
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeList
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	m.search, _ = m.search.Update(msg)
	if m.search.Value() != before {
		m.ctrl.SetSearch(m.search.Value())
		m.cursor = 0
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.Cancel()
		m.mode = modeList
		m.blurInputs()
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case "ctrl+s":
		return m, m.submitCmd()
	case "enter":
		if m.focus == fieldCount-1 {
			return m, m.submitCmd()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	m.inputs[m.focus], _ = m.inputs[m.focus].Update(msg)
	value := m.inputs[m.focus].Value()
	switch m.focus {
	case fieldName:
		m.ctrl.SetDraftName(value)
	case fieldEmail:
		m.ctrl.SetDraftEmail(value)
	case fieldPhone:
		if masked := m.ctrl.SetDraftPhone(value); masked != value {
			m.inputs[fieldPhone].SetValue(masked)
			m.inputs[fieldPhone].CursorEnd()
		}
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteCmd(m.pending.ID)
	case "n", "N", "esc", "q":
		m.mode = modeList
		m.pending = model.Contact{}
	}
	return m, nil
}

// openForm fills the inputs from c and focuses the first one.
func (m *Model) openForm(c model.Contact) {
	m.inputs[fieldName].SetValue(c.Name)
	m.inputs[fieldEmail].SetValue(c.Email)
	m.inputs[fieldPhone].SetValue(c.Phone)
	for i := range m.inputs {
		m.inputs[i].CursorEnd()
	}
	m.mode = modeForm
	m.setFocus(fieldName)
}

func (m *Model) setFocus(i int) {
	m.focus = i
	for j := range m.inputs {
		if j == i {
			_ = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) blurInputs() {
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.View().Page.Contacts)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the screen.
func (m Model) View() string {
	view := m.ctrl.View()
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Teambook"))
	b.WriteString("\n")

	switch {
	case view.Busy:
		b.WriteString(m.styles.Muted.Render("working..."))
	case view.Status.IsError():
		b.WriteString(m.styles.Error.Render(view.Status.Message))
	case view.Status.Message != "":
		b.WriteString(m.styles.Notice.Render(view.Status.Message))
	}
	b.WriteString("\n")

	if m.mode == modeSearch || view.Search != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderTable(view))

	switch m.mode {
	case modeForm:
		b.WriteString("\n")
		b.WriteString(m.renderForm(view))
	case modeConfirmDelete:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Delete %s? (y/n)", m.pending.Name)))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m Model) renderTable(view application.ControllerView) string {
	var b strings.Builder

	if view.State == application.StateIdle && !view.Busy {
		b.WriteString(m.styles.Muted.Render("No contacts loaded. Press r to retry."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("%-24s %-28s %-16s", "Name", "Email", "Phone")
	b.WriteString(m.styles.Row.Render(m.styles.Header.Render(header)))
	b.WriteString("\n")

	if len(view.Page.Contacts) == 0 {
		b.WriteString(m.styles.Row.Render(m.styles.Muted.Render("No contacts found.")))
		b.WriteString("\n")
	}
	for i, c := range view.Page.Contacts {
		line := fmt.Sprintf("%-24s %-28s %-16s", truncate(c.Name, 24), truncate(c.Email, 28), c.Phone)
		if i == m.cursor && m.mode != modeForm {
			b.WriteString("> " + m.styles.Selected.Render(line))
		} else {
			b.WriteString(m.styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	sortLabel := "A-Z"
	if view.Sort == application.SortDesc {
		sortLabel = "Z-A"
	}
	footer := fmt.Sprintf("Page %d of %d - %d of %d contacts - sort %s",
		view.Page.Page, view.Page.TotalPages, view.Page.TotalMatches, view.Total, sortLabel)
	b.WriteString(m.styles.Muted.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderForm(view application.ControllerView) string {
	title := "New contact"
	if view.Draft.IsPersisted() {
		title = "Edit contact"
	}

	labels := [fieldCount]string{"Name", "Email", "Phone"}
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n")
	for i, in := range m.inputs {
		label := m.styles.Label.Render(labels[i])
		if i == m.focus {
			label = m.styles.Focused.Render(labels[i])
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	return m.styles.Box.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "type to filter - enter/esc done"
	case modeForm:
		return "tab next field - enter on phone or ctrl+s save - esc cancel"
	case modeConfirmDelete:
		return "y confirm - n cancel"
	default:
		return "j/k move - n/p page - s sort - / search - a add - e edit - d delete - r reload - q quit"
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
