package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/booksite/internal/state"
)

// selectedBook returns the highlighted book.
func (m Model) selectedBook() (state.Book, bool) {
	books := m.app.Books.List()
	if m.selected < 0 || m.selected >= len(books) {
		return state.Book{}, false
	}
	return books[m.selected], true
}

func (m *Model) clampSelection() {
	n := len(m.app.Books.List())
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

// requireAdmin reports whether admin controls are available, setting the
// status line when they are not.
func (m *Model) requireAdmin() bool {
	if m.app.Session.AdminLoggedIn() {
		return true
	}
	m.status = statusLine{text: "admin login required", isErr: true}
	return false
}

// handleBooksKey processes keyboard input for the book list.
func (m Model) handleBooksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := max(m.height-chromeRows-2, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = len(m.app.Books.List()) - 1
		m.clampSelection()
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(page)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-page)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.moveSelection(page / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.moveSelection(-page / 2)

	case key.Matches(msg, m.keys.Reload):
		m.setInfo("Reloading...")
		return m, reloadCmd(m.ctx, m.app)

	case key.Matches(msg, m.keys.Edit):
		if !m.requireAdmin() {
			return m, nil
		}
		b, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		if err := m.app.Books.BeginEdit(b.ID); err != nil {
			m.setError("edit", err)
			return m, nil
		}
		b, _ = m.app.Books.Get(b.ID)
		m.form.open(formEdit, b.ID, b.Staged)
		m.setInfo("Editing " + b.Title)

	case key.Matches(msg, m.keys.Delete):
		if !m.requireAdmin() {
			return m, nil
		}
		b, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		if b.IsBeingEdited {
			m.status = statusLine{text: "finish editing before deleting", isErr: true}
			return m, nil
		}
		m.modal = newConfirmModal(
			"Delete Book",
			fmt.Sprintf("Delete %q?", b.Title),
			deleteCmd(m.ctx, m.app, b.ID, b.Title),
		)

	case key.Matches(msg, m.keys.Add):
		if !m.requireAdmin() {
			return m, nil
		}
		if !m.app.Books.IsAdding() {
			m.app.Books.ToggleAddForm()
		}
		m.form.open(formAdd, "", m.app.Books.NewBookDraft())
		m.setInfo("New book")
	}
	return m, nil
}

// handleBookFormKey processes keyboard input while the edit or add form is open.
// The form is read-only while its save is in flight.
func (m Model) handleBookFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.form.busy = true
		switch m.form.mode {
		case formEdit:
			b, _ := m.app.Books.Get(m.form.bookID)
			m.setInfo("Saving " + b.Staged.Title + "...")
			return m, saveEditCmd(m.ctx, m.app, m.form.bookID, b.Staged.Title)
		case formAdd:
			title := m.app.Books.NewBookDraft().Title
			m.setInfo("Adding " + title + "...")
			return m, createCmd(m.ctx, m.app, title)
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		switch m.form.mode {
		case formEdit:
			if err := m.app.Books.CancelEdit(m.form.bookID); err != nil {
				m.setError("cancel", err)
			}
		case formAdd:
			if m.app.Books.IsAdding() {
				m.app.Books.ToggleAddForm()
			}
		}
		m.form.close()
		m.setInfo("")
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.form.cycle(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.cycle(-1)
		return m, nil
	}

	field, value, changed, cmd := m.form.update(msg)
	if !changed {
		return m, cmd
	}
	var err error
	switch m.form.mode {
	case formEdit:
		err = m.app.Books.ChangeStagedField(m.form.bookID, field, value)
	case formAdd:
		err = m.app.Books.ChangeNewBookField(field, value)
	}
	if err != nil {
		m.setError("edit "+field.String(), err)
	}
	return m, cmd
}

func (m *Model) handleSaveEditDone(msg saveEditDoneMsg) {
	m.form.busy = false
	if msg.err != nil {
		m.setError("save "+msg.title, msg.err)
	} else {
		m.setInfo("Saved " + msg.title)
	}
	m.settle()
}

func (m *Model) handleDeleteDone(msg deleteDoneMsg) {
	if msg.err != nil {
		m.setError("delete "+msg.title, msg.err)
	} else {
		m.setInfo("Deleted " + msg.title)
	}
	m.settle()
}

func (m *Model) handleCreateDone(msg createDoneMsg) {
	m.form.busy = false
	if msg.err != nil {
		m.setError("add "+msg.title, msg.err)
	} else {
		m.setInfo("Added " + msg.title)
	}
	m.settle()
}

// renderBooks renders the book list page.
func (m Model) renderBooks(height int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	inner := max(m.width-4, 10)

	books := m.app.Books.List()
	title := fmt.Sprintf("Books (%d)", len(books))

	var lines []string
	if m.form.mode == formAdd {
		lines = append(lines, m.renderFormLines("New Book", inner)...)
		lines = append(lines, bg.FillLine("", inner))
	}

	switch {
	case m.loading && len(books) == 0:
		lines = append(lines, bg.FillLine(bg.Render("Loading catalog...", styles.MutedText), inner))
	case len(books) == 0:
		lines = append(lines, bg.FillLine(bg.Render("No books", styles.MutedText), inner))
	}

	for i, b := range books {
		lines = append(lines, m.renderBookRow(b, i == m.selected, inner))
		if m.form.mode == formEdit && m.form.bookID == b.ID {
			lines = append(lines, m.renderFormLines("Edit", inner)...)
		}
	}

	lines = scrollWindow(lines, m.selectedLine(books), height-2)
	content := joinLines(lines)
	return m.renderBox(title, content, m.width, height, true)
}

// selectedLine returns the line index of the selected row in renderBooks.
func (m Model) selectedLine(books []state.Book) int {
	line := 0
	if m.form.mode == formAdd {
		line += len(state.BookFields) + 3
	}
	for i, b := range books {
		if i == m.selected {
			return line
		}
		line++
		if m.form.mode == formEdit && m.form.bookID == b.ID {
			line += len(state.BookFields) + 2
		}
	}
	return line
}

// scrollWindow returns at most height lines that include line focus.
func scrollWindow(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(focus-height/2, 0)
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

func (m Model) renderBookRow(b state.Book, selected bool, width int) string {
	styles := m.theme.Styles()
	rowBg := m.theme.FocusBg
	if selected {
		rowBg = m.theme.SelectionBg
	}
	bg := NewBgStyle(rowBg)
	styles = styles.WithBackground(rowBg)

	marker := "  "
	if selected {
		marker = "▸ "
	}
	titleStyle := styles.Text.Bold(true)
	if selected {
		titleStyle = titleStyle.Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	titleWidth := 36
	if width < LayoutCompactWidth {
		titleWidth = max(width-20, 10)
	}

	parts := []string{
		bg.Render(marker, styles.AccentText),
		bg.Render(padRight(truncate(b.Title, titleWidth), titleWidth), titleStyle),
		bg.Space(),
		m.theme.Styles().LanguageStyle(b.Language).Render(orDash(b.LanguageText)),
	}

	if m.app.Books.Pending(b.ID) {
		parts = append(parts, bg.Space(), bg.Render("saving", styles.WarningText))
	} else if b.IsBeingEdited && b.HasChanges() {
		parts = append(parts, bg.Space(), bg.Render("modified", styles.WarningText))
	}

	if width >= LayoutWideWidth {
		parts = append(parts, bg.Spaces(2), bg.Render(fmt.Sprintf("%4d pp", b.NumberOfPages), styles.FaintText))
	}

	if width >= LayoutCompactWidth {
		used := lipgloss.Width(strings.Join(parts, ""))
		if room := width - used - 2; room > 8 {
			parts = append(parts, bg.Spaces(2), bg.Render(truncate(b.Description, room), styles.MutedText))
		}
	}

	return bg.FillLine(strings.Join(parts, ""), width)
}

// renderFormLines renders the open book form as box lines.
func (m Model) renderFormLines(heading string, width int) []string {
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)

	labels := map[state.BookField]string{
		state.FieldTitle:       "Title:       ",
		state.FieldDescription: "Description: ",
		state.FieldLanguage:    "Language:    ",
	}

	lines := []string{bg.FillLine(bg.Spaces(4)+bg.Render(heading, styles.AccentText.Bold(true)), width)}
	for i, field := range state.BookFields {
		label := styles.MutedText
		if i == m.form.focusIdx {
			label = styles.AccentText
		}
		input := m.form.inputs[i]
		input.Width = max(width-22, 10)
		lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Render(labels[field], label)+input.View(), width))
	}

	hint := "Enter: Save  •  Tab: Next field  •  Esc: Cancel"
	if m.form.busy {
		hint = "Saving..."
	}
	lines = append(lines, bg.FillLine(bg.Spaces(4)+bg.Render(hint, styles.FaintText), width))
	return lines
}
