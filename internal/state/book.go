package state

import (
	"fmt"

	"github.com/five82/booksite/internal/catalog"
)

// BookField names one of the three editable book fields.
type BookField int

const (
	FieldTitle BookField = iota
	FieldDescription
	FieldLanguage
)

// BookFields lists the editable fields in form order.
var BookFields = []BookField{FieldTitle, FieldDescription, FieldLanguage}

func (f BookField) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldLanguage:
		return "language"
	default:
		return fmt.Sprintf("BookField(%d)", int(f))
	}
}

// EditFields holds the editable values of a book. It backs both a book's
// staged edit and the new-book draft.
type EditFields struct {
	Title       string
	Description string
	Language    string
}

// Get returns the value of field.
func (e EditFields) Get(field BookField) string {
	switch field {
	case FieldTitle:
		return e.Title
	case FieldDescription:
		return e.Description
	case FieldLanguage:
		return e.Language
	default:
		return ""
	}
}

// With returns a copy of e with field set to value. Unknown fields leave e
// unchanged.
func (e EditFields) With(field BookField, value string) EditFields {
	switch field {
	case FieldTitle:
		e.Title = value
	case FieldDescription:
		e.Description = value
	case FieldLanguage:
		e.Language = value
	}
	return e
}

func validField(field BookField) bool {
	return field >= FieldTitle && field <= FieldLanguage
}

// Book is a catalog record plus its edit state.
type Book struct {
	catalog.Book

	IsBeingEdited bool
	// Staged is the working copy shown in the edit form. It only reaches
	// the committed fields through a successful save.
	Staged EditFields
}

// Committed returns the saved values of the editable fields.
func (b Book) Committed() EditFields {
	return EditFields{Title: b.Title, Description: b.Description, Language: b.Language}
}

// HasChanges reports whether the staged values differ from the committed ones.
func (b Book) HasChanges() bool {
	return b.Staged != b.Committed()
}

func bookFromRecord(rec catalog.Book) Book {
	b := Book{Book: rec}
	if b.LanguageText == "" {
		b.LanguageText = catalog.Capitalize(b.Language)
	}
	b.Staged = b.Committed()
	return b
}

// commit copies fields into the committed values and leaves edit mode.
func (b Book) commit(fields EditFields) Book {
	b.Title = fields.Title
	b.Description = fields.Description
	b.Language = fields.Language
	b.LanguageText = catalog.Capitalize(fields.Language)
	b.Staged = fields
	b.IsBeingEdited = false
	return b
}
