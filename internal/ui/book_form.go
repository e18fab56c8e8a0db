package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/booksite/internal/state"
)

type formMode int

const (
	formClosed formMode = iota
	formEdit
	formAdd
)

// bookForm mirrors the staged fields of one book, or the new-book draft, in
// text inputs. The stores stay authoritative: every keystroke is forwarded.
type bookForm struct {
	mode     formMode
	bookID   string // set in formEdit
	inputs   []textinput.Model
	focusIdx int
	busy     bool // save in flight
}

func newBookForm() bookForm {
	placeholders := map[state.BookField]string{
		state.FieldTitle:       "Title",
		state.FieldDescription: "Description",
		state.FieldLanguage:    "e.g. english",
	}
	limits := map[state.BookField]int{
		state.FieldTitle:       200,
		state.FieldDescription: 2000,
		state.FieldLanguage:    40,
	}

	inputs := make([]textinput.Model, len(state.BookFields))
	for i, field := range state.BookFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[field]
		ti.CharLimit = limits[field]
		inputs[i] = ti
	}
	return bookForm{inputs: inputs}
}

func (f bookForm) isOpen() bool {
	return f.mode != formClosed
}

func (f bookForm) field() state.BookField {
	return state.BookFields[f.focusIdx]
}

// open fills the inputs from values and focuses the first one.
func (f *bookForm) open(mode formMode, bookID string, values state.EditFields) {
	f.mode = mode
	f.bookID = bookID
	f.focusIdx = 0
	f.busy = false
	for i, field := range state.BookFields {
		f.inputs[i].SetValue(values.Get(field))
		f.inputs[i].CursorEnd()
		f.inputs[i].Blur()
	}
	f.inputs[0].Focus()
}

func (f *bookForm) close() {
	f.mode = formClosed
	f.bookID = ""
	f.busy = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// cycle moves focus by step, wrapping around.
func (f *bookForm) cycle(step int) {
	f.inputs[f.focusIdx].Blur()
	n := len(f.inputs)
	f.focusIdx = ((f.focusIdx+step)%n + n) % n
	f.inputs[f.focusIdx].Focus()
}

// update feeds msg to the focused input and reports its field, new value and
// whether the value changed.
func (f *bookForm) update(msg tea.Msg) (state.BookField, string, bool, tea.Cmd) {
	before := f.inputs[f.focusIdx].Value()
	var cmd tea.Cmd
	f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	after := f.inputs[f.focusIdx].Value()
	return f.field(), after, after != before, cmd
}

// syncForm closes the form when its book left edit mode or the add form was
// closed, for example by a logout.
func (m *Model) syncForm() {
	switch m.form.mode {
	case formEdit:
		b, ok := m.app.Books.Get(m.form.bookID)
		if !ok || !b.IsBeingEdited {
			m.form.close()
		}
	case formAdd:
		if !m.app.Books.IsAdding() {
			m.form.close()
		}
	}
}
